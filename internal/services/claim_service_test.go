package services

import (
	"errors"
	"testing"
	"time"

	"github.com/campusfound/lostfound-backend/internal/dto"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/realtime"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database and migrates every model the
// services touch.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Report{},
		&models.Claim{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}
	return db
}

func newClaimService(db *gorm.DB) *ClaimService {
	return NewClaimService(db, realtime.NewHub(), NewNotificationService(db))
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) uuid.UUID {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "x",
		FullName: "Test User",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user.ID
}

func seedCategory(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	category := models.Category{Name: "Electronics"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category.ID
}

func seedReport(t *testing.T, db *gorm.DB, ownerID uuid.UUID, categoryID uint, kind models.ReportKind, status models.ReportStatus) uint {
	t.Helper()
	report := models.Report{
		UserID:      ownerID,
		CategoryID:  categoryID,
		Kind:        kind,
		Title:       "Black wallet",
		Description: "Found near the library entrance, contains a student card",
		Location:    "Main library",
		OccurredOn:  time.Now().AddDate(0, 0, -1),
		Status:      status,
	}
	if err := db.Create(&report).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	return report.ID
}

func validClaimReq(reportID uint) *dto.CreateClaimRequest {
	return &dto.CreateClaimRequest{
		ReportID:     reportID,
		Evidence:     "It has a scratch on the left corner and a blue sticker",
		ContactPhone: "081234567890",
		Reason:       "I dropped my wallet near the library last Tuesday afternoon",
	}
}

func reportStatus(t *testing.T, db *gorm.DB, id uint) models.ReportStatus {
	t.Helper()
	var report models.Report
	if err := db.First(&report, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload report %d: %v", id, err)
	}
	return report.Status
}

func claimStatus(t *testing.T, db *gorm.DB, id uint) models.ClaimStatus {
	t.Helper()
	var claim models.Claim
	if err := db.First(&claim, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload claim %d: %v", id, err)
	}
	return claim.Status
}

func TestCreateClaim_Success(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	claim, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("expected claim to be created, got error: %v", err)
	}

	if claim.Status != models.ClaimPending {
		t.Errorf("claim status = %q, expected Pending", claim.Status)
	}
	if claim.ClaimantID != claimant {
		t.Errorf("claimant = %s, expected %s", claim.ClaimantID, claimant)
	}
	if got := reportStatus(t, db, reportID); got != models.ReportBeingClaimed {
		t.Errorf("report status = %q, expected BeingClaimed", got)
	}

	// The owner gets a persisted notification intent.
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND event = ?", owner, models.EventClaimCreated).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 claim.created notification for the owner, got %d", count)
	}
}

func TestCreateClaim_Unauthenticated(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	_, err := svc.Create(uuid.Nil, validClaimReq(1))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got: %v", err)
	}
}

func TestCreateClaim_ReportNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)

	_, err := svc.Create(claimant, validClaimReq(9999))
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got: %v", err)
	}
}

func TestCreateClaim_LostReportRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindLost, models.ReportPending)

	_, err := svc.Create(claimant, validClaimReq(reportID))
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got: %v", err)
	}
	if got := reportStatus(t, db, reportID); got != models.ReportPending {
		t.Errorf("report status changed to %q on rejected claim", got)
	}
}

func TestCreateClaim_SelfClaimForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	_, err := svc.Create(owner, validClaimReq(reportID))
	if !errors.Is(err, ErrSelfClaim) {
		t.Fatalf("expected ErrSelfClaim, got: %v", err)
	}

	var count int64
	db.Model(&models.Claim{}).Count(&count)
	if count != 0 {
		t.Errorf("self-claim must never persist, found %d claims", count)
	}
}

func TestCreateClaim_TerminalReportNotClaimable(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)

	for _, status := range []models.ReportStatus{models.ReportBeingClaimed, models.ReportReturned, models.ReportClosed} {
		reportID := seedReport(t, db, owner, categoryID, models.KindFound, status)
		_, err := svc.Create(claimant, validClaimReq(reportID))
		if !errors.Is(err, ErrNotClaimable) {
			t.Errorf("status %q: expected ErrNotClaimable, got: %v", status, err)
		}
	}
}

func TestCreateClaim_VerificationStatusClaimable(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportVerification)

	if _, err := svc.Create(claimant, validClaimReq(reportID)); err != nil {
		t.Fatalf("Verification reports must be claimable, got: %v", err)
	}
	if got := reportStatus(t, db, reportID); got != models.ReportBeingClaimed {
		t.Errorf("report status = %q, expected BeingClaimed", got)
	}
}

func TestCreateClaim_DuplicatePendingRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	if _, err := svc.Create(claimant, validClaimReq(reportID)); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	// Reset the report so only the duplicate check can fire.
	db.Model(&models.Report{}).Where("id = ?", reportID).Update("status", models.ReportPending)

	_, err := svc.Create(claimant, validClaimReq(reportID))
	if !errors.Is(err, ErrDuplicateClaim) {
		t.Fatalf("expected ErrDuplicateClaim, got: %v", err)
	}
}

func TestCreateClaim_AllowedAfterRejection(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	first, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := svc.Decide(owner, first.ID, models.ClaimRejected); err != nil {
		t.Fatalf("rejection failed: %v", err)
	}

	// Rejection returns the report to the claimable pool, and only Pending
	// duplicates are blocked, so the same claimant may try again.
	if _, err := svc.Create(claimant, validClaimReq(reportID)); err != nil {
		t.Fatalf("resubmission after rejection should succeed, got: %v", err)
	}
}

func TestCreateClaim_InvalidForm(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)

	tests := []struct {
		name   string
		mutate func(*dto.CreateClaimRequest)
	}{
		{name: "evidence too short", mutate: func(r *dto.CreateClaimRequest) { r.Evidence = "short" }},
		{name: "phone too short", mutate: func(r *dto.CreateClaimRequest) { r.ContactPhone = "12345" }},
		{name: "phone with letters", mutate: func(r *dto.CreateClaimRequest) { r.ContactPhone = "08123abc4567" }},
		{name: "reason too short", mutate: func(r *dto.CreateClaimRequest) { r.Reason = "because" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validClaimReq(1)
			tt.mutate(req)
			if _, err := svc.Create(claimant, req); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestDecideClaim_ApproveClosesReport(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	claim, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("claim creation failed: %v", err)
	}

	decided, err := svc.Decide(owner, claim.ID, models.ClaimApproved)
	if err != nil {
		t.Fatalf("owner approval failed: %v", err)
	}

	if decided.Status != models.ClaimApproved {
		t.Errorf("claim status = %q, expected Approved", decided.Status)
	}
	if got := reportStatus(t, db, reportID); got != models.ReportClosed {
		t.Errorf("report status = %q, expected Closed", got)
	}

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND event = ?", claimant, models.EventClaimDecided).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 claim.decided notification for the claimant, got %d", count)
	}
}

func TestDecideClaim_RejectReopensReport(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	claim, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("claim creation failed: %v", err)
	}

	if _, err := svc.Decide(owner, claim.ID, models.ClaimRejected); err != nil {
		t.Fatalf("rejection failed: %v", err)
	}

	if got := claimStatus(t, db, claim.ID); got != models.ClaimRejected {
		t.Errorf("claim status = %q, expected Rejected", got)
	}
	// The report re-enters the claimable pool.
	if got := reportStatus(t, db, reportID); got != models.ReportPending {
		t.Errorf("report status = %q, expected Pending", got)
	}
}

func TestDecideClaim_UnauthorizedActor(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	stranger := seedUser(t, db, "stranger@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	claim, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("claim creation failed: %v", err)
	}

	_, err = svc.Decide(stranger, claim.ID, models.ClaimRejected)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got: %v", err)
	}
	if got := claimStatus(t, db, claim.ID); got != models.ClaimPending {
		t.Errorf("claim status = %q, expected unchanged Pending", got)
	}
}

func TestDecideClaim_AdminAllowed(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	admin := seedUser(t, db, "staff@campus.edu", models.RoleAdmin)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	claim, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("claim creation failed: %v", err)
	}

	if _, err := svc.Decide(admin, claim.ID, models.ClaimApproved); err != nil {
		t.Fatalf("admin decision failed: %v", err)
	}
	if got := reportStatus(t, db, reportID); got != models.ReportClosed {
		t.Errorf("report status = %q, expected Closed", got)
	}
}

func TestDecideClaim_AlreadyDecided(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	claim, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("claim creation failed: %v", err)
	}
	if _, err := svc.Decide(owner, claim.ID, models.ClaimApproved); err != nil {
		t.Fatalf("first decision failed: %v", err)
	}

	// Second decision must fail the Pending recheck at write time and leave
	// the report untouched.
	_, err = svc.Decide(owner, claim.ID, models.ClaimRejected)
	if !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got: %v", err)
	}
	if got := claimStatus(t, db, claim.ID); got != models.ClaimApproved {
		t.Errorf("claim status = %q, expected Approved after duplicate decision", got)
	}
	if got := reportStatus(t, db, reportID); got != models.ReportClosed {
		t.Errorf("report status = %q, expected Closed after duplicate decision", got)
	}
}

func TestDecideClaim_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)
	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)

	_, err := svc.Decide(owner, 4242, models.ClaimApproved)
	if !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound, got: %v", err)
	}
}

func TestListForReportOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	other := seedUser(t, db, "other@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)

	myReport := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)
	otherReport := seedReport(t, db, other, categoryID, models.KindFound, models.ReportPending)

	base := time.Now().Add(-time.Hour)
	for i, reportID := range []uint{myReport, myReport, otherReport} {
		claim := models.Claim{
			ReportID:     reportID,
			ClaimantID:   claimant,
			Evidence:     "It has a scratch on the left corner and a sticker",
			ContactPhone: "081234567890",
			Reason:       "I lost this exact item near the cafeteria last week",
			Status:       models.ClaimPending,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if i == 1 {
			claim.Status = models.ClaimRejected
		}
		if err := db.Create(&claim).Error; err != nil {
			t.Fatalf("failed to seed claim: %v", err)
		}
	}

	claims, err := svc.ListForReportOwner(owner)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	// Both statuses against the owner's report, none against the other's.
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0].CreatedAt.Before(claims[1].CreatedAt) {
		t.Error("claims must be ordered newest first")
	}
	for _, claim := range claims {
		if claim.ReportID != myReport {
			t.Errorf("claim %d targets report %d, expected %d", claim.ID, claim.ReportID, myReport)
		}
		if claim.Report == nil || claim.Claimant == nil {
			t.Error("expected report and claimant to be preloaded")
		}
	}
}

func TestListForClaimant(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	if _, err := svc.Create(claimant, validClaimReq(reportID)); err != nil {
		t.Fatalf("claim creation failed: %v", err)
	}

	claims, err := svc.ListForClaimant(claimant)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
	if claims[0].Report == nil {
		t.Error("expected report to be preloaded")
	}

	if claims, _ := svc.ListForClaimant(owner); len(claims) != 0 {
		t.Errorf("owner filed no claims, got %d", len(claims))
	}
}

func TestListAll_StatusFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := newClaimService(db)

	owner := seedUser(t, db, "owner@campus.edu", models.RoleUser)
	claimant := seedUser(t, db, "claimant@campus.edu", models.RoleUser)
	categoryID := seedCategory(t, db)
	reportID := seedReport(t, db, owner, categoryID, models.KindFound, models.ReportPending)

	claim, err := svc.Create(claimant, validClaimReq(reportID))
	if err != nil {
		t.Fatalf("claim creation failed: %v", err)
	}
	if _, err := svc.Decide(owner, claim.ID, models.ClaimApproved); err != nil {
		t.Fatalf("decision failed: %v", err)
	}

	approved, total, err := svc.ListAll(models.ClaimApproved, 50, 0)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if total != 1 || len(approved) != 1 {
		t.Fatalf("expected 1 approved claim, got %d (total %d)", len(approved), total)
	}

	pending, total, err := svc.ListAll(models.ClaimPending, 50, 0)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if total != 0 || len(pending) != 0 {
		t.Fatalf("expected no pending claims, got %d (total %d)", len(pending), total)
	}
}
