package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rabbithabit/rabbit-core/internal/dtos/chat_dto"
	chat_repo "github.com/rabbithabit/rabbit-core/internal/repo/chat"
)

// Relay fans chat events out to channel subscribers. Sends are re-read from
// the store before broadcasting so the echoed record carries server-assigned
// identifiers and timestamps; deletes go out verbatim because the sync
// delete path already authorized them. Bad input is logged and dropped, the
// connection stays up.
type Relay struct {
	Hub      *Hub
	ChatRepo chat_repo.ChatRepoContract

	Now func() time.Time
}

func NewRelay(hub *Hub, chatRepo chat_repo.ChatRepoContract) *Relay {
	return &Relay{
		Hub:      hub,
		ChatRepo: chatRepo,
		Now:      time.Now,
	}
}

func (rl *Relay) HandleInbound(ctx context.Context, c *Client, data []byte) {
	var event InboundEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Warn().Err(err).Str("clientID", c.ID).Msg("relay: malformed payload dropped")
		return
	}

	switch event.Type {
	case EventJoin:
		rl.Hub.Subscribe(event.ChannelID, c)
	case EventLeave:
		rl.Hub.Unsubscribe(event.ChannelID, c)
	case EventSend:
		rl.handleSend(ctx, event)
	case EventDelete:
		rl.handleDelete(event)
	case EventReadUpdate:
		rl.handleReadUpdate(ctx, event)
	default:
		log.Warn().Str("type", event.Type).Str("clientID", c.ID).Msg("relay: unknown event type dropped")
	}
}

func (rl *Relay) handleSend(ctx context.Context, event InboundEvent) {
	channelID, err := uuid.Parse(event.ChannelID)
	if err != nil {
		log.Warn().Str("channelID", event.ChannelID).Msg("relay: send with invalid channel id dropped")
		return
	}

	msg, appErr := rl.ChatRepo.FindLatestMessage(ctx, channelID, event.UserID, event.Content)
	if appErr != nil {
		// nothing persisted to echo; the client reconciles on next load
		log.Warn().Err(appErr).Str("channelID", event.ChannelID).Str("userID", event.UserID).Msg("relay: send lookup failed, dropped")
		return
	}

	hydrated := chat_dto.FromEntity(msg)
	rl.Hub.BroadcastToChannel(event.ChannelID, OutgoingEvent{
		Type:    EventMessage,
		Message: &hydrated,
	})
}

func (rl *Relay) handleDelete(event InboundEvent) {
	rl.Hub.BroadcastToChannel(event.ChannelID, OutgoingEvent{
		Type:      EventDelete,
		MessageID: event.MessageID,
	})
}

func (rl *Relay) handleReadUpdate(ctx context.Context, event InboundEvent) {
	channelID, err := uuid.Parse(event.ChannelID)
	if err != nil {
		log.Warn().Str("channelID", event.ChannelID).Msg("relay: read_update with invalid channel id dropped")
		return
	}

	at, appErr := rl.ChatRepo.LatestMessageAt(ctx, channelID)
	if appErr != nil {
		log.Warn().Err(appErr).Str("channelID", event.ChannelID).Msg("relay: read_update lookup failed, dropped")
		return
	}
	if at == nil {
		now := rl.Now()
		at = &now
	}

	read, appErr := rl.ChatRepo.UpsertRead(ctx, event.UserID, channelID, *at)
	if appErr != nil {
		log.Warn().Err(appErr).Str("channelID", event.ChannelID).Str("userID", event.UserID).Msg("relay: read receipt upsert failed, dropped")
		return
	}

	lastReadAt := read.LastReadAt
	rl.Hub.BroadcastToChannel(event.ChannelID, OutgoingEvent{
		Type:       EventReadUpdate,
		UserID:     event.UserID,
		LastReadAt: &lastReadAt,
	})
}
