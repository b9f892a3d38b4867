package models

import (
	"time"
)

// Article is an admin-curated editorial piece shown on the articles page.
type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// NewsItem is a syndicated news entry pulled from configured RSS sources or
// added manually by an admin.
type NewsItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Link        string    `gorm:"uniqueIndex:idx_news_items_link,where:link <> ''" json:"link,omitempty"`
	Source      string    `json:"source,omitempty"`
	ImagePath   string    `json:"image_path"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
