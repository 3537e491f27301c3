package handlers

import (
	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load categories",
		})
	}
	return c.JSON(fiber.Map{"categories": categories})
}
