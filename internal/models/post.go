// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a post in the GardenCircle feed.
//
// AuthorID is nullable: legacy and anonymous posts carry no live author
// reference. AuthorName is a display-name snapshot taken at creation time and
// is deliberately independent of later username changes; it must never be
// treated as a foreign key.
type Post struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	AuthorID   *uint  `gorm:"index" json:"author_id"`
	AuthorName string `gorm:"not null;default:'Anonym'" json:"author_name"`
	Content    string `gorm:"type:text;not null" json:"content"`
	ImagePath  string `json:"image_path"`
	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int64 `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
