package handlers

import (
	"errors"
	"strconv"

	"github.com/campusfound/lostfound-backend/internal/authz"
	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ClaimHandler struct {
	claimService *services.ClaimService
}

func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) Create(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	claim, err := h.claimService.Create(actorID, &req)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(claim)
}

func (h *ClaimHandler) Decide(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid claim id",
		})
	}

	var req dto.DecideClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	claim, err := h.claimService.Decide(actorID, uint(id), req.Decision)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	return c.JSON(claim)
}

// ListMine returns the claims the actor has filed.
func (h *ClaimHandler) ListMine(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	claims, err := h.claimService.ListForClaimant(actorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load claims",
		})
	}

	return c.JSON(fiber.Map{"claims": claims, "total": len(claims)})
}

// ListIncoming returns claims filed against the actor's reports.
func (h *ClaimHandler) ListIncoming(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	claims, err := h.claimService.ListForReportOwner(actorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load claims",
		})
	}

	return c.JSON(fiber.Map{"claims": claims, "total": len(claims)})
}

// ListAll is the admin listing.
func (h *ClaimHandler) ListAll(c *fiber.Ctx) error {
	status := models.ClaimStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid claim status",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	claims, total, err := h.claimService.ListAll(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load claims",
		})
	}

	return c.JSON(fiber.Map{"claims": claims, "total": total, "limit": limit, "offset": offset})
}

// respondWorkflowError maps workflow error kinds to HTTP statuses.
func respondWorkflowError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrClaimNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrDuplicateClaim),
		errors.Is(err, services.ErrAlreadyDecided):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrInvalidKind),
		errors.Is(err, services.ErrSelfClaim),
		errors.Is(err, services.ErrNotClaimable),
		errors.Is(err, services.ErrCategoryNotFound):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrRemoteFailure):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}
