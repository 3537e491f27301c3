package models

import (
	"time"

	"github.com/google/uuid"
)

// Claim is an ownership assertion against a Found report. Evidence, phone and
// reason are distinct columns. The claimant is never the report owner, and a
// (report, claimant) pair carries at most one Pending claim at a time.
type Claim struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ReportID     uint        `gorm:"not null;index:idx_claims_report_claimant" json:"report_id"`
	ClaimantID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_claims_report_claimant" json:"claimant_id"`
	Evidence     string      `gorm:"size:500;not null" json:"evidence"`
	ContactPhone string      `gorm:"size:20;not null" json:"contact_phone"`
	Reason       string      `gorm:"type:text;not null" json:"reason"`
	Status       ClaimStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Report   *Report `gorm:"foreignKey:ReportID" json:"report,omitempty"`
	Claimant *User   `gorm:"foreignKey:ClaimantID" json:"claimant,omitempty"`
}
