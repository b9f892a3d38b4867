package server

import (
	"gardencircle/internal/models"
	"gardencircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest defines the expected request body for commenting
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// GetComments returns every comment on a post, oldest first
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment adds a comment to a post for the authenticated user
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		AuthorID: userID,
		PostID:   postID,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment removes a comment (author or admin)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.commentService.DeleteComment(c.Context(), userID, commentID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
