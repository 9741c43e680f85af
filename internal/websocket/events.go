package websocket

import (
	"time"

	"github.com/rabbithabit/rabbit-core/internal/dtos/chat_dto"
)

// Inbound event types. An absent type means "send".
const (
	EventSend       = ""
	EventDelete     = "delete"
	EventReadUpdate = "read_update"
	EventJoin       = "join"
	EventLeave      = "leave"
)

// Outbound-only event types.
const (
	EventMessage      = "message"
	EventRabbitStatus = "rabbit_status"
)

// InboundEvent is the JSON envelope clients write to the socket.
type InboundEvent struct {
	Type      string `json:"type,omitempty"`
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Content   string `json:"content,omitempty"`
}

// OutgoingEvent is the JSON envelope broadcast to subscribed sockets.
type OutgoingEvent struct {
	Type       string                    `json:"type"`
	ChannelID  string                    `json:"channelId,omitempty"`
	UserID     string                    `json:"userId,omitempty"`
	MessageID  string                    `json:"messageId,omitempty"`
	HabitID    string                    `json:"habitId,omitempty"`
	LastReadAt *time.Time                `json:"lastReadAt,omitempty"`
	Message    *chat_dto.MessageResponse `json:"message,omitempty"`
	Status     string                    `json:"status,omitempty"`
	Combo      *int                      `json:"combo,omitempty"`
	Timestamp  int64                     `json:"timestamp,omitempty"`
}
