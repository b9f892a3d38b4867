package server

import (
	"gardencircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadImage accepts a multipart image and stores it in the object
// bucket. The returned path goes into a post's imagePath or a profile
// avatar field.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	if s.images == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing image file"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unreadable image file"))
	}
	defer file.Close()

	path, err := s.images.UploadImage(c.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"path": path})
}
