package models

import (
	"time"
)

// ChatRole identifies the speaker of a chat message.
type ChatRole string

const (
	// ChatRoleUser marks a message written by the member.
	ChatRoleUser ChatRole = "user"
	// ChatRoleBot marks a reply produced by the assistant.
	ChatRoleBot ChatRole = "bot"
)

// ChatMessage is one entry in a user's append-only assistant transcript.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Role      ChatRole  `gorm:"type:varchar(10);not null;check:role IN ('user','bot')" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
