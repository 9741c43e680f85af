package chat_dto

import "time"

// MessageResponse is the hydrated message record: what the sync API returns
// and what the relay broadcasts. Identifiers and timestamps are always the
// server-assigned ones, never client input.
type MessageResponse struct {
	MessageID    string    `json:"message_id"`
	ChannelID    string    `json:"channel_id"`
	UserID       string    `json:"user_id"`
	Nickname     string    `json:"nickname,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListMessagesResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor *string           `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

type ReadResponse struct {
	ChannelID  string    `json:"channel_id"`
	UserID     string    `json:"user_id"`
	LastReadAt time.Time `json:"last_read_at"`
}
