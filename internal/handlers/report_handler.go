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

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.Create(actorID, &req)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	filters := dto.ReportFilters{
		Kind:     models.ReportKind(c.Query("kind")),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}
	if categoryID, err := strconv.Atoi(c.Query("category_id", "0")); err == nil && categoryID > 0 {
		filters.CategoryID = uint(categoryID)
	}
	if filters.Kind != "" && !filters.Kind.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "kind must be Lost or Found",
		})
	}

	reports, err := h.reportService.List(filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load reports",
		})
	}

	return c.JSON(fiber.Map{"reports": reports, "total": len(reports)})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	report, err := h.reportService.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load report",
		})
	}

	return c.JSON(report)
}

func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	reports, err := h.reportService.ListByOwner(actorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load reports",
		})
	}

	return c.JSON(fiber.Map{"reports": reports, "total": len(reports)})
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.UpdateStatus(actorID, uint(id), req.Status)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	return c.JSON(report)
}

func (h *ReportHandler) SetImage(c *fiber.Ctx) error {
	actorID, err := authz.ActorFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	var req dto.SetReportImageRequest
	if err := c.BodyParser(&req); err != nil || req.ImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "image_url is required",
		})
	}

	report, err := h.reportService.SetImage(actorID, uint(id), req.ImageURL)
	if err != nil {
		return respondWorkflowError(c, err)
	}

	return c.JSON(report)
}
