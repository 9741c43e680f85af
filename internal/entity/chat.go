package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatChannel is the 1:1 chat room attached to a habit.
type ChatChannel struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	HabitID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	LastMessageAt time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

type ChatMessage struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	ChannelID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    string    `gorm:"not null;index"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	Author *User `gorm:"foreignKey:UserID"`
}

// ChatRead tracks how far one user has read a channel. A message is unread
// for a user when no row exists or LastReadAt precedes the message.
type ChatRead struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     string    `gorm:"not null;index:idx_chat_read_user_channel,unique"`
	ChannelID  uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_read_user_channel,unique"`
	LastReadAt time.Time `gorm:"not null"`
}
