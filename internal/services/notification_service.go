package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService persists notification intents for users. Delivery
// (email, push) is intentionally not implemented; clients read the list
// endpoint or the realtime feed.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// ClaimCreated records a notification intent for the report owner.
func (s *NotificationService) ClaimCreated(ownerID uuid.UUID, claim *models.Claim, report *models.Report) {
	s.record(ownerID, models.EventClaimCreated, map[string]interface{}{
		"claim_id":  claim.ID,
		"report_id": report.ID,
		"title":     report.Title,
	})
}

// ClaimDecided records a notification intent for the claimant.
func (s *NotificationService) ClaimDecided(claimantID uuid.UUID, claim *models.Claim) {
	s.record(claimantID, models.EventClaimDecided, map[string]interface{}{
		"claim_id":  claim.ID,
		"report_id": claim.ReportID,
		"status":    claim.Status,
	})
}

func (s *NotificationService) record(userID uuid.UUID, event string, payload map[string]interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal notification payload", "event", event, "error", err)
		return
	}

	notification := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Event:   event,
		Payload: datatypes.JSON(body),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		// A lost notification must not fail the workflow that raised it.
		slog.Error("failed to persist notification", "event", event, "user_id", userID.String(), "error", err)
	}
}

func (s *NotificationService) ListForUser(userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkRead(userID uuid.UUID, id uuid.UUID) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
