package server

import (
	"context"
	"net/http"
	"testing"

	"gardencircle/internal/models"
	"gardencircle/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newsRepoStub covers the curation handlers without a database.
type newsRepoStub struct {
	created []*models.NewsItem
}

func (s *newsRepoStub) UpsertItems(_ context.Context, _ []models.NewsItem) (int64, error) {
	return 0, nil
}
func (s *newsRepoStub) CreateItem(_ context.Context, item *models.NewsItem) error {
	item.ID = uint(len(s.created) + 1)
	s.created = append(s.created, item)
	return nil
}
func (s *newsRepoStub) ListItems(_ context.Context, _ int) ([]models.NewsItem, error) {
	return nil, nil
}
func (s *newsRepoStub) CreateArticle(_ context.Context, _ *models.Article) error { return nil }
func (s *newsRepoStub) GetArticle(_ context.Context, _ uint) (*models.Article, error) {
	return nil, models.NewNotFoundError("Article", 0)
}
func (s *newsRepoStub) ListArticles(_ context.Context, _, _ int) ([]models.Article, error) {
	return nil, nil
}
func (s *newsRepoStub) DeleteArticle(_ context.Context, _ uint) error { return nil }

type noopSyndicator struct{}

func (noopSyndicator) Fetch(_ context.Context) ([]models.NewsItem, error) {
	return nil, nil
}

func TestCreateNewsItem(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	s := newTestServer(t, gormDB, nil)
	repo := &newsRepoStub{}
	s.newsService = service.NewNewsService(repo, noopSyndicator{}, 50)

	app := fiber.New()
	withUser(app, 1)
	app.Post("/admin/news", s.CreateNewsItem)

	resp := postJSON(t, app, "/admin/news", fiber.Map{
		"title":   "Frost warning this weekend",
		"content": "Cover tender seedlings overnight.",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var item models.NewsItem
	decodeBody(t, resp, &item)
	assert.Equal(t, "Frost warning this weekend", item.Title)
	assert.Equal(t, "editorial", item.Source)
	assert.Empty(t, item.Link)

	require.Len(t, repo.created, 1)
}

func TestCreateNewsItem_Validation(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	s := newTestServer(t, gormDB, nil)
	s.newsService = service.NewNewsService(&newsRepoStub{}, noopSyndicator{}, 50)

	app := fiber.New()
	withUser(app, 1)
	app.Post("/admin/news", s.CreateNewsItem)

	resp := postJSON(t, app, "/admin/news", fiber.Map{"title": "", "content": "body"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateNewsItem_NoServiceConfigured(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	s := newTestServer(t, gormDB, nil)

	app := fiber.New()
	withUser(app, 1)
	app.Post("/admin/news", s.CreateNewsItem)

	resp := postJSON(t, app, "/admin/news", fiber.Map{"title": "x", "content": "y"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
