package chat_repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rabbithabit/rabbit-core/internal/entity"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
)

type ChatRepoContract interface {
	FindChannelByID(ctx context.Context, channelID uuid.UUID) (*entity.ChatChannel, *app_error.AppError)
	CreateMessage(ctx context.Context, channelID uuid.UUID, userID, content string, now time.Time) (*entity.ChatMessage, *app_error.AppError)
	FindLatestMessage(ctx context.Context, channelID uuid.UUID, userID, content string) (*entity.ChatMessage, *app_error.AppError)
	ListMessages(ctx context.Context, channelID uuid.UUID, limit int, beforeID *uuid.UUID) ([]*entity.ChatMessage, *app_error.AppError)
	DeleteMessage(ctx context.Context, channelID, messageID uuid.UUID, userID string, now time.Time) *app_error.AppError
	LatestMessageAt(ctx context.Context, channelID uuid.UUID) (*time.Time, *app_error.AppError)
	UpsertRead(ctx context.Context, userID string, channelID uuid.UUID, at time.Time) (*entity.ChatRead, *app_error.AppError)
	UnreadCount(ctx context.Context, userID string, channelID uuid.UUID) (int64, *app_error.AppError)
}
