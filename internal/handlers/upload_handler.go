package handlers

import (
	"errors"

	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	store *storage.ImageStore
}

// NewUploadHandler accepts a nil store; uploads then return 503 instead of
// taking the whole API down when MinIO is not configured.
func NewUploadHandler(store *storage.ImageStore) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	if h.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Image storage is not available",
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "image file is required",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := storage.ValidateImage(contentType, fileHeader.Size); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "could not read uploaded file",
		})
	}
	defer file.Close()

	url, err := h.store.Upload(c.Context(), file, fileHeader.Filename, contentType, fileHeader.Size)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) || errors.Is(err, storage.ErrImageTooLarge) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to upload image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{URL: url})
}
