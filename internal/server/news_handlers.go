package server

import (
	"log/slog"

	"gardencircle/internal/featureflags"
	"gardencircle/internal/models"
	"gardencircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateArticleRequest defines the expected request body for an editorial article
type CreateArticleRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImagePath string `json:"imagePath"`
}

// CreateNewsItemRequest defines the expected request body for a curated news item
type CreateNewsItemRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImagePath string `json:"imagePath"`
}

// GetNews returns the merged syndicated news list plus editorial articles metadata
func (s *Server) GetNews(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	if !s.featureFlags.Enabled(featureflags.FlagNews, userID) {
		return c.JSON(fiber.Map{"items": []models.NewsItem{}})
	}
	if s.newsService == nil {
		return c.JSON(fiber.Map{"items": []models.NewsItem{}})
	}

	items, err := s.newsService.ListItems(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// RefreshNews pulls the configured RSS feeds and stores new items
func (s *Server) RefreshNews(c *fiber.Ctx) error {
	if s.newsService == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	inserted, err := s.newsService.Refresh(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	slog.InfoContext(c.UserContext(), "news refreshed", "new_items", inserted)
	return c.JSON(fiber.Map{"newItems": inserted})
}

// CreateNewsItem adds a hand-curated item to the news page (admin only)
func (s *Server) CreateNewsItem(c *fiber.Ctx) error {
	if s.newsService == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	var req CreateNewsItemRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.newsService.CreateItem(c.Context(), service.CreateNewsItemInput{
		Title:     req.Title,
		Content:   req.Content,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetArticles lists editorial articles, newest first
func (s *Server) GetArticles(c *fiber.Ctx) error {
	if s.newsService == nil {
		return c.JSON(fiber.Map{"articles": []models.Article{}})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	articles, err := s.newsService.ListArticles(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"articles": articles})
}

// GetArticle returns one editorial article
func (s *Server) GetArticle(c *fiber.Ctx) error {
	if s.newsService == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Article", c.Params("id")))
	}
	articleID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	article, err := s.newsService.GetArticle(c.Context(), articleID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(article)
}

// CreateArticle publishes an editorial article (admin only)
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	if s.newsService == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	var req CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.newsService.CreateArticle(c.Context(), service.CreateArticleInput{
		Title:     req.Title,
		Content:   req.Content,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// DeleteArticle removes an editorial article (admin only)
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	if s.newsService == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}
	articleID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.newsService.DeleteArticle(c.Context(), articleID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Article deleted"})
}

// GetFeatureFlags returns the feature flag snapshot as the caller sees it (admin only)
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	return c.JSON(fiber.Map{"flags": s.featureFlags.Snapshot(userID)})
}
