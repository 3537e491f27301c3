package handlers

import (
	"errors"

	"github.com/campusfound/lostfound-backend/internal/authz"
	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	notifications, err := h.notificationService.ListForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load notifications",
		})
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid notification id",
		})
	}

	if err := h.notificationService.MarkRead(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Notification not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update notification",
		})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
