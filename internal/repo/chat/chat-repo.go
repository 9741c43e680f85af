package chat_repo

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rabbithabit/rabbit-core/internal/entity"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	"github.com/rabbithabit/rabbit-core/state"
)

// deleteWindow is how long an author may retract their own message.
const deleteWindow = 60 * time.Minute

type ChatRepo struct {
	AppState *state.AppState
}

func NewChatRepo(appState *state.AppState) ChatRepoContract {
	return &ChatRepo{
		AppState: appState,
	}
}

func (r *ChatRepo) FindChannelByID(ctx context.Context, channelID uuid.UUID) (*entity.ChatChannel, *app_error.AppError) {
	var channel entity.ChatChannel
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", channelID).First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("channel not found")
		}
		log.Error().Err(err).Str("channelID", channelID.String()).Msg("failed to fetch channel")
		return nil, app_error.Internal("failed to fetch channel")
	}
	return &channel, nil
}

func (r *ChatRepo) CreateMessage(ctx context.Context, channelID uuid.UUID, userID, content string, now time.Time) (*entity.ChatMessage, *app_error.AppError) {
	msg := &entity.ChatMessage{
		ID:        uuid.New(),
		ChannelID: channelID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
	}

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var channel entity.ChatChannel
		if err := tx.Where("id = ?", channelID).First(&channel).Error; err != nil {
			return err
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&entity.ChatChannel{}).Where("id = ?", channelID).
			Update("last_message_at", now).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("channel not found")
		}
		log.Error().Err(err).Str("channelID", channelID.String()).Msg("failed to create message")
		return nil, app_error.Internal("failed to create message")
	}

	// author hydration is best-effort; the message stands without a profile
	var author entity.User
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", userID).First(&author).Error; err == nil {
		msg.Author = &author
	}

	return msg, nil
}

// FindLatestMessage re-reads the newest persisted message matching a relay
// send event, author included, so broadcasts carry server-assigned fields.
func (r *ChatRepo) FindLatestMessage(ctx context.Context, channelID uuid.UUID, userID, content string) (*entity.ChatMessage, *app_error.AppError) {
	var msg entity.ChatMessage
	err := r.AppState.DB.WithContext(ctx).
		Preload("Author").
		Where("channel_id = ? AND user_id = ? AND content = ?", channelID, userID, content).
		Order("created_at DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("no matching message")
		}
		log.Error().Err(err).Str("channelID", channelID.String()).Msg("failed to fetch latest message")
		return nil, app_error.Internal("failed to fetch latest message")
	}
	return &msg, nil
}

func (r *ChatRepo) ListMessages(ctx context.Context, channelID uuid.UUID, limit int, beforeID *uuid.UUID) ([]*entity.ChatMessage, *app_error.AppError) {
	query := r.AppState.DB.WithContext(ctx).
		Preload("Author").
		Where("channel_id = ?", channelID)

	if beforeID != nil {
		var cursor entity.ChatMessage
		if err := r.AppState.DB.WithContext(ctx).Where("id = ? AND channel_id = ?", *beforeID, channelID).First(&cursor).Error; err != nil {
			return nil, app_error.NewAppError(http.StatusBadRequest, "unknown cursor message", "before-id")
		}
		query = query.Where("created_at < ?", cursor.CreatedAt)
	}

	var messages []*entity.ChatMessage
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		log.Error().Err(err).Str("channelID", channelID.String()).Msg("failed to fetch messages")
		return nil, app_error.Internal("failed to fetch messages")
	}

	// newest-first query, returned oldest to newest
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *ChatRepo) DeleteMessage(ctx context.Context, channelID, messageID uuid.UUID, userID string, now time.Time) *app_error.AppError {
	var msg entity.ChatMessage
	err := r.AppState.DB.WithContext(ctx).
		Where("id = ? AND channel_id = ?", messageID, channelID).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app_error.NotFound("message not found or has been deleted")
		}
		return app_error.Internal("failed to fetch message")
	}

	if msg.UserID != userID {
		return app_error.NewAppError(http.StatusForbidden, "only the author can delete a message", "author")
	}
	if now.Sub(msg.CreatedAt) > deleteWindow {
		return app_error.NewAppError(http.StatusForbidden, "delete window has expired", "delete-window")
	}

	if err := r.AppState.DB.WithContext(ctx).Delete(&entity.ChatMessage{}, "id = ?", msg.ID).Error; err != nil {
		log.Error().Err(err).Str("messageID", messageID.String()).Msg("failed to delete message")
		return app_error.Internal("failed to delete message")
	}
	return nil
}

func (r *ChatRepo) LatestMessageAt(ctx context.Context, channelID uuid.UUID) (*time.Time, *app_error.AppError) {
	var msg entity.ChatMessage
	err := r.AppState.DB.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // empty channel
		}
		return nil, app_error.Internal("failed to fetch latest message timestamp")
	}
	return &msg.CreatedAt, nil
}

// UpsertRead moves a user's read marker forward; it never rewinds.
func (r *ChatRepo) UpsertRead(ctx context.Context, userID string, channelID uuid.UUID, at time.Time) (*entity.ChatRead, *app_error.AppError) {
	var read entity.ChatRead

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND channel_id = ?", userID, channelID).First(&read).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			read = entity.ChatRead{
				UserID:     userID,
				ChannelID:  channelID,
				LastReadAt: at,
			}
			return tx.Create(&read).Error
		}
		if err != nil {
			return err
		}
		if at.After(read.LastReadAt) {
			read.LastReadAt = at
			return tx.Save(&read).Error
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("channelID", channelID.String()).Str("userID", userID).Msg("failed to upsert read receipt")
		return nil, app_error.Internal("failed to update read receipt")
	}

	return &read, nil
}

func (r *ChatRepo) UnreadCount(ctx context.Context, userID string, channelID uuid.UUID) (int64, *app_error.AppError) {
	var read entity.ChatRead
	err := r.AppState.DB.WithContext(ctx).Where("user_id = ? AND channel_id = ?", userID, channelID).First(&read).Error

	query := r.AppState.DB.WithContext(ctx).
		Model(&entity.ChatMessage{}).
		Where("channel_id = ?", channelID)
	if err == nil {
		query = query.Where("created_at > ?", read.LastReadAt)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, app_error.Internal("failed to fetch read receipt")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, app_error.Internal("failed to count unread messages")
	}
	return count, nil
}
