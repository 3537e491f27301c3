package services

import (
	"errors"
	"testing"

	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestNotificationListAndMarkRead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	other := seedUser(t, db, "other@campus.edu", models.RoleUser)

	claim := &models.Claim{ID: 1, ReportID: 2}
	report := &models.Report{ID: 2, Title: "Black wallet"}
	svc.ClaimCreated(owner, claim, report)
	svc.ClaimDecided(other, &models.Claim{ID: 1, ReportID: 2, Status: models.ClaimApproved})

	mine, err := svc.ListForUser(owner)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(mine))
	}
	if mine[0].Event != models.EventClaimCreated {
		t.Errorf("event = %q, expected %q", mine[0].Event, models.EventClaimCreated)
	}
	if mine[0].Read {
		t.Error("new notifications start unread")
	}

	if err := svc.MarkRead(owner, mine[0].ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	mine, _ = svc.ListForUser(owner)
	if !mine[0].Read {
		t.Error("notification not marked read")
	}
}

func TestMarkRead_WrongUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	other := seedUser(t, db, "other@campus.edu", models.RoleUser)

	svc.ClaimCreated(owner, &models.Claim{ID: 1, ReportID: 2}, &models.Report{ID: 2, Title: "Black wallet"})
	mine, err := svc.ListForUser(owner)
	if err != nil || len(mine) != 1 {
		t.Fatalf("seed notification missing: %v", err)
	}

	// Another user cannot consume someone else's notification.
	err = svc.MarkRead(other, mine[0].ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got: %v", err)
	}
}

func TestMarkRead_UnknownID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)

	err := svc.MarkRead(owner, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got: %v", err)
	}
}
