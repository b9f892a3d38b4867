package repository

import (
	"context"

	"gardencircle/internal/models"

	"gorm.io/gorm"
)

// ChatRepository stores the append-only assistant conversation log.
type ChatRepository interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	History(ctx context.Context, userID uint, limit int) ([]*models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// History returns the latest messages in chronological order. The query
// fetches DESC to pick up the newest rows, then reverses for the client.
func (r *chatRepository) History(ctx context.Context, userID uint, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
