package entity

import "time"

// User rows are written by the identity provider; this service only reads
// them to hydrate chat broadcasts.
type User struct {
	ID           string `gorm:"primaryKey"`
	Nickname     string `gorm:"not null"`
	ProfileImage string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
