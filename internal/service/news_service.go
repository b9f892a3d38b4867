package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gardencircle/internal/models"
	"gardencircle/internal/observability"
	"gardencircle/internal/repository"
)

// Syndicator pulls fresh items from configured external feeds.
type Syndicator interface {
	Fetch(ctx context.Context) ([]models.NewsItem, error)
}

type NewsService struct {
	newsRepo   repository.NewsRepository
	syndicator Syndicator
	listLimit  int
}

type CreateArticleInput struct {
	Title     string
	Content   string
	ImagePath string
}

type CreateNewsItemInput struct {
	Title     string
	Content   string
	ImagePath string
}

func NewNewsService(newsRepo repository.NewsRepository, syndicator Syndicator, listLimit int) *NewsService {
	if listLimit <= 0 {
		listLimit = 50
	}
	return &NewsService{newsRepo: newsRepo, syndicator: syndicator, listLimit: listLimit}
}

// Refresh pulls the configured feeds and stores items not yet seen.
// Returns how many new items landed.
func (s *NewsService) Refresh(ctx context.Context) (int64, error) {
	items, err := s.syndicator.Fetch(ctx)
	if err != nil {
		observability.NewsFetchTotal.WithLabelValues("error").Inc()
		return 0, models.NewInternalError(err)
	}

	inserted, err := s.newsRepo.UpsertItems(ctx, items)
	if err != nil {
		observability.NewsFetchTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	observability.NewsFetchTotal.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "news refresh complete", "fetched", len(items), "inserted", inserted)
	return inserted, nil
}

func (s *NewsService) ListItems(ctx context.Context) ([]models.NewsItem, error) {
	return s.newsRepo.ListItems(ctx, s.listLimit)
}

// CreateItem stores a hand-curated entry on the news page. Curated items
// carry no source link, so they never collide with fetched ones.
func (s *NewsService) CreateItem(ctx context.Context, in CreateNewsItemInput) (*models.NewsItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	item := &models.NewsItem{
		Title:       in.Title,
		Content:     in.Content,
		ImagePath:   in.ImagePath,
		Source:      "editorial",
		PublishedAt: time.Now(),
	}
	if err := s.newsRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *NewsService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	article := &models.Article{
		Title:     in.Title,
		Content:   in.Content,
		ImagePath: in.ImagePath,
	}
	if err := s.newsRepo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *NewsService) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	return s.newsRepo.GetArticle(ctx, id)
}

func (s *NewsService) ListArticles(ctx context.Context, limit, offset int) ([]models.Article, error) {
	return s.newsRepo.ListArticles(ctx, clampLimit(limit), clampOffset(offset))
}

func (s *NewsService) DeleteArticle(ctx context.Context, id uint) error {
	return s.newsRepo.DeleteArticle(ctx, id)
}
