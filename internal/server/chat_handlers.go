package server

import (
	"gardencircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ChatRequest defines the expected request body for an assistant message
type ChatRequest struct {
	Message string `json:"message"`
}

// SendChatMessage forwards a message to the garden assistant and returns
// both sides of the exchange.
func (s *Server) SendChatMessage(c *fiber.Ctx) error {
	if s.chatService == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}
	userID := c.Locals("userID").(uint)

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	exchange, err := s.chatService.SendMessage(c.Context(), userID, req.Message)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(exchange)
}

// GetChatHistory returns the caller's conversation in chronological order
func (s *Server) GetChatHistory(c *fiber.Ctx) error {
	if s.chatService == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}
	userID := c.Locals("userID").(uint)
	limit := c.QueryInt("limit", 50)

	messages, err := s.chatService.History(c.Context(), userID, limit)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}
