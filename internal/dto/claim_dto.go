package dto

import "github.com/campusfound/lostfound-backend/internal/models"

type CreateClaimRequest struct {
	ReportID     uint   `json:"report_id"`
	Evidence     string `json:"evidence"`
	ContactPhone string `json:"contact_phone"`
	Reason       string `json:"reason"`
}

type DecideClaimRequest struct {
	Decision models.ClaimStatus `json:"decision"` // Approved or Rejected
}
