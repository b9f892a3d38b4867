package server

import (
	"log/slog"

	"gardencircle/internal/models"
	"gardencircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest defines the expected request body for profile edits.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

// GetMyProfile returns the authenticated user's own profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), userID, userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile applies a partial update to the caller's profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: userID,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(user)
}

// GetUserProfile returns another member's profile with follow counts
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	viewerID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), targetID, viewerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(profile)
}

// GetAllUsers returns a page of members
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	users, err := s.userService.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// DeleteUser removes an account and its engagement. Members can delete
// themselves; admins can delete anyone.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	callerID := c.Locals("userID").(uint)
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.userService.DeleteUser(c.Context(), callerID, targetID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	slog.InfoContext(c.UserContext(), "user deleted", "target_id", targetID, "caller_id", callerID)
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// PromoteToAdmin grants admin rights to a member
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	return s.setAdmin(c, true)
}

// DemoteFromAdmin revokes admin rights from a member
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	return s.setAdmin(c, false)
}

func (s *Server) setAdmin(c *fiber.Ctx, isAdmin bool) error {
	callerID := c.Locals("userID").(uint)
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.userService.SetAdmin(c.Context(), callerID, targetID, isAdmin); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	slog.InfoContext(c.UserContext(), "admin flag changed",
		"target_id", targetID, "is_admin", isAdmin, "caller_id", callerID)
	return c.JSON(fiber.Map{"message": "Admin status updated"})
}
