package handlers

import (
	"context"
	"time"

	"github.com/campusfound/lostfound-backend/internal/database"
	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store *storage.ImageStore
}

func NewHealthHandler(store *storage.ImageStore) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	storageStatus := "disabled"
	if h.store != nil {
		storageStatus = "ok"
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()
		if err := h.store.HealthCheck(ctx); err != nil {
			storageStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Storage:   storageStatus,
	})
}
