package repository

import (
	"context"
	"errors"

	"gardencircle/internal/cache"
	"gardencircle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository stores fetched feed items and editorial articles.
type NewsRepository interface {
	UpsertItems(ctx context.Context, items []models.NewsItem) (int64, error)
	CreateItem(ctx context.Context, item *models.NewsItem) error
	ListItems(ctx context.Context, limit int) ([]models.NewsItem, error)
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticle(ctx context.Context, id uint) (*models.Article, error)
	ListArticles(ctx context.Context, limit, offset int) ([]models.Article, error)
	DeleteArticle(ctx context.Context, id uint) error
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

// UpsertItems inserts fetched items, skipping links already stored.
// Returns how many new rows landed.
func (r *newsRepository) UpsertItems(ctx context.Context, items []models.NewsItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&items)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.NewsKey)
	}
	return res.RowsAffected, nil
}

// CreateItem stores one hand-curated item alongside the fetched ones.
func (r *newsRepository) CreateItem(ctx context.Context, item *models.NewsItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.NewsKey)
	return nil
}

func (r *newsRepository) ListItems(ctx context.Context, limit int) ([]models.NewsItem, error) {
	var items []models.NewsItem

	err := cache.Aside(ctx, cache.NewsKey, &items, cache.NewsTTL, func() error {
		return r.db.WithContext(ctx).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&items).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *newsRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *newsRepository) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &article, nil
}

func (r *newsRepository) ListArticles(ctx context.Context, limit, offset int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *newsRepository) DeleteArticle(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Article", id)
	}
	return nil
}
