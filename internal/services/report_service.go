package services

import (
	"errors"
	"strings"
	"time"

	"github.com/campusfound/lostfound-backend/internal/authz"
	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportService owns report creation, listing and explicit status changes.
// Claim-driven status transitions live in ClaimService.
type ReportService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewReportService(db *gorm.DB, hub *realtime.Hub) *ReportService {
	return &ReportService{db: db, hub: hub}
}

func (s *ReportService) Create(ownerID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if !req.Kind.IsValid() {
		return nil, errors.New("kind must be Lost or Found")
	}
	if l := len(strings.TrimSpace(req.Title)); l < 3 || l > 100 {
		return nil, errors.New("title must be between 3 and 100 characters")
	}
	if l := len(strings.TrimSpace(req.Description)); l < 10 || l > 1000 {
		return nil, errors.New("description must be between 10 and 1000 characters")
	}
	if l := len(strings.TrimSpace(req.Location)); l < 3 || l > 200 {
		return nil, errors.New("location must be between 3 and 200 characters")
	}

	occurredOn, err := time.Parse("2006-01-02", req.OccurredOn)
	if err != nil {
		return nil, errors.New("occurred_on must be a valid date (YYYY-MM-DD)")
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		return nil, ErrCategoryNotFound
	}

	report := models.Report{
		UserID:      ownerID,
		CategoryID:  req.CategoryID,
		Kind:        req.Kind,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		OccurredOn:  occurredOn,
		Status:      models.ReportPending,
	}
	if req.ImageURL != "" {
		report.ImageURL = &req.ImageURL
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, remoteErr("failed to create report", err)
	}

	s.hub.Publish(realtime.Event{
		Entity:  "reports",
		Action:  realtime.ActionInsert,
		ID:      report.ID,
		Payload: &report,
	})

	return &report, nil
}

// List returns reports matching the filters, newest first, with category and
// owner profile joined in.
func (s *ReportService) List(filters dto.ReportFilters) ([]models.Report, error) {
	query := s.db.Model(&models.Report{}).
		Preload("Category").
		Preload("Owner")

	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.CategoryID != 0 {
		query = query.Where("category_id = ?", filters.CategoryID)
	}
	if filters.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filters.Location)+"%")
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var reports []models.Report
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ReportService) Get(id uint) (*models.Report, error) {
	var report models.Report
	err := s.db.Preload("Category").Preload("Owner").First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ReportService) ListByOwner(ownerID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.Preload("Category").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// UpdateStatus applies an explicit owner/admin status change. Claim-driven
// transitions do not come through here.
func (s *ReportService) UpdateStatus(actorID uuid.UUID, id uint, status models.ReportStatus) (*models.Report, error) {
	if actorID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if !status.IsValid() {
		return nil, errors.New("invalid report status")
	}

	report, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	allowed, err := authz.CanTransitionClaim(s.db, actorID, report)
	if err != nil {
		return nil, remoteErr("role lookup failed", err)
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	if err := s.db.Model(&models.Report{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, remoteErr("failed to update report status", err)
	}
	report.Status = status

	s.hub.Publish(realtime.Event{
		Entity:  "reports",
		Action:  realtime.ActionUpdate,
		ID:      report.ID,
		Payload: report,
	})

	return report, nil
}

// SetImage attaches an uploaded image URL to the owner's report.
func (s *ReportService) SetImage(actorID uuid.UUID, id uint, url string) (*models.Report, error) {
	report, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if report.UserID != actorID {
		return nil, ErrUnauthorized
	}

	if err := s.db.Model(&models.Report{}).Where("id = ?", id).Update("image_url", url).Error; err != nil {
		return nil, remoteErr("failed to set report image", err)
	}
	report.ImageURL = &url

	s.hub.Publish(realtime.Event{
		Entity:  "reports",
		Action:  realtime.ActionUpdate,
		ID:      report.ID,
		Payload: report,
	})

	return report, nil
}
