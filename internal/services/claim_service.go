package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/campusfound/lostfound-backend/internal/authz"
	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s]+$`)

// ClaimService is the claim workflow engine: it validates claim creation,
// decides claims, and moves report status along with them. Both writes of
// each operation run in one transaction, with the status change applied as a
// conditional update so the first persisted write wins under concurrency.
type ClaimService struct {
	db       *gorm.DB
	hub      *realtime.Hub
	notifier *NotificationService
}

func NewClaimService(db *gorm.DB, hub *realtime.Hub, notifier *NotificationService) *ClaimService {
	return &ClaimService{db: db, hub: hub, notifier: notifier}
}

// Create files a claim against a Found report. Preconditions are checked in
// order; the first failure wins:
//
//  1. actor authenticated
//  2. report exists
//  3. report kind is Found
//  4. actor is not the report owner
//  5. report status is Pending or Verification
//  6. no Pending claim by this actor on this report
//
// A rejected claimant may file again once the report is claimable; only
// Pending duplicates are blocked.
func (s *ClaimService) Create(actorID uuid.UUID, req *dto.CreateClaimRequest) (*models.Claim, error) {
	if actorID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := validateClaimForm(req); err != nil {
		return nil, err
	}

	var report models.Report
	if err := s.db.First(&report, "id = ?", req.ReportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, remoteErr("failed to load report", err)
	}

	if report.Kind != models.KindFound {
		return nil, ErrInvalidKind
	}
	if report.UserID == actorID {
		return nil, ErrSelfClaim
	}
	if !report.Status.Claimable() {
		return nil, ErrNotClaimable
	}

	var existing models.Claim
	err := s.db.Where("report_id = ? AND claimant_id = ? AND status = ?",
		report.ID, actorID, models.ClaimPending).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateClaim
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, remoteErr("failed to check existing claims", err)
	}

	claim := models.Claim{
		ReportID:     report.ID,
		ClaimantID:   actorID,
		Evidence:     strings.TrimSpace(req.Evidence),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		Reason:       strings.TrimSpace(req.Reason),
		Status:       models.ClaimPending,
	}

	// Claim insert and report transition commit or fail together. The report
	// update is conditioned on the claimable statuses so a concurrent claim
	// or status change rolls this one back instead of double-claiming.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&claim).Error; err != nil {
			return remoteErr("failed to create claim", err)
		}

		res := tx.Model(&models.Report{}).
			Where("id = ? AND status IN ?", report.ID,
				[]models.ReportStatus{models.ReportPending, models.ReportVerification}).
			Update("status", models.ReportBeingClaimed)
		if res.Error != nil {
			return remoteErr("failed to update report status", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotClaimable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Status = models.ReportBeingClaimed

	s.notifier.ClaimCreated(report.UserID, &claim, &report)

	s.hub.Publish(realtime.Event{
		Entity:   "claims",
		Action:   realtime.ActionInsert,
		ID:       claim.ID,
		Payload:  &claim,
		Audience: []uuid.UUID{report.UserID, actorID},
	})
	s.hub.Publish(realtime.Event{
		Entity:  "reports",
		Action:  realtime.ActionUpdate,
		ID:      report.ID,
		Payload: &report,
	})

	return &claim, nil
}

// Decide settles a Pending claim. Only the report owner or an admin may
// decide; the Pending check is re-applied at write time so a concurrent
// second decision fails with ErrAlreadyDecided instead of double-processing.
// Approval closes the report; rejection returns it to the claimable pool.
func (s *ClaimService) Decide(actorID uuid.UUID, claimID uint, decision models.ClaimStatus) (*models.Claim, error) {
	if actorID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if !decision.IsDecision() {
		return nil, errors.New("decision must be Approved or Rejected")
	}

	var claim models.Claim
	if err := s.db.Preload("Report").First(&claim, "id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, remoteErr("failed to load claim", err)
	}
	if claim.Report == nil {
		return nil, ErrReportNotFound
	}

	allowed, err := authz.CanTransitionClaim(s.db, actorID, claim.Report)
	if err != nil {
		return nil, remoteErr("role lookup failed", err)
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	reportStatus := models.ReportClosed
	if decision == models.ClaimRejected {
		reportStatus = models.ReportPending
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Claim{}).
			Where("id = ? AND status = ?", claimID, models.ClaimPending).
			Update("status", decision)
		if res.Error != nil {
			return remoteErr("failed to update claim status", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDecided
		}

		if err := tx.Model(&models.Report{}).
			Where("id = ?", claim.ReportID).
			Update("status", reportStatus).Error; err != nil {
			return remoteErr("failed to update report status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	claim.Status = decision
	claim.Report.Status = reportStatus

	s.notifier.ClaimDecided(claim.ClaimantID, &claim)

	s.hub.Publish(realtime.Event{
		Entity:   "claims",
		Action:   realtime.ActionUpdate,
		ID:       claim.ID,
		Payload:  &claim,
		Audience: []uuid.UUID{claim.Report.UserID, claim.ClaimantID},
	})
	s.hub.Publish(realtime.Event{
		Entity:  "reports",
		Action:  realtime.ActionUpdate,
		ID:      claim.ReportID,
		Payload: claim.Report,
	})

	return &claim, nil
}

// ListForReportOwner returns every claim filed against the actor's reports,
// across all statuses, newest first.
func (s *ClaimService) ListForReportOwner(actorID uuid.UUID) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.db.
		Joins("JOIN reports ON reports.id = claims.report_id").
		Where("reports.user_id = ?", actorID).
		Preload("Report").
		Preload("Claimant").
		Order("claims.created_at DESC").
		Find(&claims).Error
	return claims, err
}

// ListForClaimant returns the actor's own claims, newest first.
func (s *ClaimService) ListForClaimant(actorID uuid.UUID) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.db.
		Where("claimant_id = ?", actorID).
		Preload("Report").
		Preload("Report.Category").
		Order("created_at DESC").
		Find(&claims).Error
	return claims, err
}

// ListAll is the admin view over every claim, optionally filtered by status.
func (s *ClaimService) ListAll(status models.ClaimStatus, limit, offset int) ([]models.Claim, int64, error) {
	var claims []models.Claim
	var total int64

	query := s.db.Model(&models.Claim{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	err := query.
		Preload("Report").
		Preload("Claimant").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&claims).Error
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

func validateClaimForm(req *dto.CreateClaimRequest) error {
	if l := len(strings.TrimSpace(req.Evidence)); l < 10 || l > 500 {
		return errors.New("evidence must be between 10 and 500 characters")
	}
	phone := strings.TrimSpace(req.ContactPhone)
	if len(phone) < 10 || len(phone) > 15 || !phonePattern.MatchString(phone) {
		return errors.New("contact phone must be 10-15 digits")
	}
	if l := len(strings.TrimSpace(req.Reason)); l < 20 || l > 1000 {
		return errors.New("reason must be between 20 and 1000 characters")
	}
	return nil
}
