package chat_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rabbithabit/rabbit-core/internal/dtos/chat_dto"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	chat_repo "github.com/rabbithabit/rabbit-core/internal/repo/chat"
	"github.com/rabbithabit/rabbit-core/internal/utils"
	"github.com/rabbithabit/rabbit-core/state"
)

const latestMessageCacheTTL = 10 * time.Minute

type ChatService struct {
	AppState *state.AppState
	ChatRepo chat_repo.ChatRepoContract

	Now func() time.Time
}

func NewChatService(appState *state.AppState) ChatServiceContract {
	return &ChatService{
		AppState: appState,
		ChatRepo: chat_repo.NewChatRepo(appState),
		Now:      time.Now,
	}
}

func latestMessageCacheKey(channelID uuid.UUID) string {
	return fmt.Sprintf("chat:latest:%s", channelID)
}

func (s *ChatService) SendMessage(ctx context.Context, channelID uuid.UUID, userID, content string) (*chat_dto.MessageResponse, *app_error.AppError) {
	msg, appErr := s.ChatRepo.CreateMessage(ctx, channelID, userID, content, s.Now())
	if appErr != nil {
		return nil, appErr
	}

	if s.AppState.Redis != nil {
		createdAt := msg.CreatedAt
		if err := utils.SetCacheData(ctx, s.AppState.Redis, latestMessageCacheKey(channelID), &createdAt, latestMessageCacheTTL); err != nil {
			log.Warn().Err(err).Str("channelID", channelID.String()).Msg("failed to cache latest message timestamp")
		}
	}

	resp := chat_dto.FromEntity(msg)
	return &resp, nil
}

func (s *ChatService) ListMessages(ctx context.Context, channelID uuid.UUID, req chat_dto.ListMessagesRequest) (*chat_dto.ListMessagesResponse, *app_error.AppError) {
	if _, appErr := s.ChatRepo.FindChannelByID(ctx, channelID); appErr != nil {
		return nil, appErr
	}

	limit := req.Limit
	if limit == 0 {
		limit = 20
	}

	var beforeID *uuid.UUID
	if req.BeforeID != nil {
		id, err := uuid.Parse(*req.BeforeID)
		if err != nil {
			return nil, app_error.NewAppError(400, "invalid before_id", "before-id")
		}
		beforeID = &id
	}

	messages, appErr := s.ChatRepo.ListMessages(ctx, channelID, limit, beforeID)
	if appErr != nil {
		return nil, appErr
	}

	respMessages := make([]chat_dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		respMessages = append(respMessages, chat_dto.FromEntity(msg))
	}

	// oldest message of the page is the next cursor
	var nextCursor *string
	if len(messages) > 0 {
		oldest := messages[0].ID.String()
		nextCursor = &oldest
	}

	return &chat_dto.ListMessagesResponse{
		Messages:   respMessages,
		NextCursor: nextCursor,
		HasMore:    len(messages) == limit,
	}, nil
}

func (s *ChatService) DeleteMessage(ctx context.Context, channelID, messageID uuid.UUID, userID string) *app_error.AppError {
	return s.ChatRepo.DeleteMessage(ctx, channelID, messageID, userID, s.Now())
}

// MarkRead stamps the user's read receipt with the channel's latest message
// timestamp, or now for an empty channel.
func (s *ChatService) MarkRead(ctx context.Context, channelID uuid.UUID, userID string) (*chat_dto.ReadResponse, *app_error.AppError) {
	at := s.latestMessageAt(ctx, channelID)
	if at == nil {
		now := s.Now()
		at = &now
	}

	read, appErr := s.ChatRepo.UpsertRead(ctx, userID, channelID, *at)
	if appErr != nil {
		return nil, appErr
	}

	return &chat_dto.ReadResponse{
		ChannelID:  channelID.String(),
		UserID:     userID,
		LastReadAt: read.LastReadAt,
	}, nil
}

func (s *ChatService) UnreadCount(ctx context.Context, channelID uuid.UUID, userID string) (int64, *app_error.AppError) {
	return s.ChatRepo.UnreadCount(ctx, userID, channelID)
}

func (s *ChatService) latestMessageAt(ctx context.Context, channelID uuid.UUID) *time.Time {
	if s.AppState.Redis != nil {
		cached, appErr := utils.GetCacheData[time.Time](ctx, s.AppState.Redis, latestMessageCacheKey(channelID))
		if appErr == nil && cached != nil {
			return cached
		}
	}

	at, appErr := s.ChatRepo.LatestMessageAt(ctx, channelID)
	if appErr != nil {
		log.Warn().Err(appErr).Str("channelID", channelID.String()).Msg("failed to read latest message timestamp")
		return nil
	}
	return at
}
