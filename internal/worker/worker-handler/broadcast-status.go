package worker_handler

import (
	"encoding/json"
	"fmt"

	"github.com/rabbithabit/rabbit-core/internal/utils/types"
	"github.com/rabbithabit/rabbit-core/internal/websocket"
)

// HandleBroadcastStatusChange pushes a finalized rabbit-status transition to
// the habit's channel subscribers.
func (wh *WorkerHandler) HandleBroadcastStatusChange(raw json.RawMessage) error {
	var payload types.StatusChangePayload

	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid status-change payload: %w", err)
	}

	if payload.ChannelID == "" {
		// habit without a channel; nothing to deliver
		return nil
	}

	combo := payload.Combo
	wh.Hub.BroadcastToChannel(payload.ChannelID, websocket.OutgoingEvent{
		Type:      websocket.EventRabbitStatus,
		HabitID:   payload.HabitID,
		Status:    payload.Status,
		Combo:     &combo,
		Timestamp: payload.Day.Unix(),
	})

	return nil
}
