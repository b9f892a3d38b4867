package server

import (
	"gardencircle/internal/feed"
	"gardencircle/internal/models"
	"gardencircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest defines the expected request body for creating a post
type CreatePostRequest struct {
	Content   string `json:"content"`
	ImagePath string `json:"imagePath"`
}

// UpdatePostRequest defines the expected request body for editing a post
type UpdatePostRequest struct {
	Content string `json:"content"`
}

// GetFeed returns one page of the public feed. Signed-in viewers get
// their liked state on each item.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", feed.DefaultPageSize)
	offset := c.QueryInt("offset", 0)

	viewerID, _ := s.optionalUserID(c)

	items, err := s.assembler.Page(c.Context(), limit, offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{
		"posts":  items,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPost returns a single post with its engagement counts
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), postID, viewerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	avatar := ""
	if post.Author != nil {
		avatar = post.Author.Avatar
	}
	return c.JSON(feed.ItemFromPost(post, avatar))
}

// GetUserPosts returns one page of a single author's posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	limit := c.QueryInt("limit", feed.DefaultPageSize)
	offset := c.QueryInt("offset", 0)
	viewerID := c.Locals("userID").(uint)

	posts, err := s.postService.GetUserPosts(c.Context(), authorID, limit, offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	items := make([]feed.Item, 0, len(posts))
	for _, post := range posts {
		avatar := ""
		if post.Author != nil {
			avatar = post.Author.Avatar
		}
		items = append(items, feed.ItemFromPost(post, avatar))
	}
	return c.JSON(fiber.Map{"posts": items})
}

// CreatePost handles creating a new post for the authenticated user
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:  userID,
		Content:   req.Content,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles editing a post's content
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}

// DeletePost handles deleting a post (author or admin)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleLike flips the caller's like on a post and returns the new state
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	result, err := s.postService.ToggleLike(c.Context(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(result)
}
