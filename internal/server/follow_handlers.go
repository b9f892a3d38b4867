package server

import (
	"gardencircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow flips the caller's follow edge to another member
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	followerID := c.Locals("userID").(uint)
	followedID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	result, err := s.followService.ToggleFollow(c.Context(), followerID, followedID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(result)
}

// GetFollowers lists the members following a user, newest first
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	users, err := s.followService.Followers(c.Context(), userID, limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetFollowing lists the members a user follows, newest first
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	users, err := s.followService.Following(c.Context(), userID, limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"users": users})
}
