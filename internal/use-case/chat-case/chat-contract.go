package chat_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rabbithabit/rabbit-core/internal/dtos/chat_dto"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
)

type ChatServiceContract interface {
	SendMessage(ctx context.Context, channelID uuid.UUID, userID, content string) (*chat_dto.MessageResponse, *app_error.AppError)
	ListMessages(ctx context.Context, channelID uuid.UUID, req chat_dto.ListMessagesRequest) (*chat_dto.ListMessagesResponse, *app_error.AppError)
	DeleteMessage(ctx context.Context, channelID, messageID uuid.UUID, userID string) *app_error.AppError
	MarkRead(ctx context.Context, channelID uuid.UUID, userID string) (*chat_dto.ReadResponse, *app_error.AppError)
	UnreadCount(ctx context.Context, channelID uuid.UUID, userID string) (int64, *app_error.AppError)
}
