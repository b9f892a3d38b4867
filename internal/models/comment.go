// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a comment on a post. Comments are removed together with
// their post. AuthorName follows the same snapshot rule as Post.AuthorName.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"post_id"`
	AuthorID   *uint     `gorm:"index" json:"author_id"`
	AuthorName string    `gorm:"not null;default:'Anonym'" json:"author_name"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`

	Post   Post  `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
