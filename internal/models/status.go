package models

// ReportKind distinguishes lost-item notices from found-item notices.
// Immutable after the report is created.
type ReportKind string

const (
	KindLost  ReportKind = "Lost"
	KindFound ReportKind = "Found"
)

func (k ReportKind) IsValid() bool {
	return k == KindLost || k == KindFound
}

// ReportStatus is the lifecycle state of a report.
//
//	Pending -> {Verification, BeingClaimed} -> {Returned, Closed}
//
// Returned and Closed are terminal.
type ReportStatus string

const (
	ReportPending      ReportStatus = "Pending"
	ReportVerification ReportStatus = "Verification"
	ReportBeingClaimed ReportStatus = "BeingClaimed"
	ReportReturned     ReportStatus = "Returned"
	ReportClosed       ReportStatus = "Closed"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportPending, ReportVerification, ReportBeingClaimed, ReportReturned, ReportClosed:
		return true
	}
	return false
}

// Claimable reports accept new claims. Only Pending and Verification qualify;
// a report already under claim or in a terminal state does not.
func (s ReportStatus) Claimable() bool {
	return s == ReportPending || s == ReportVerification
}

func (s ReportStatus) Terminal() bool {
	return s == ReportReturned || s == ReportClosed
}

// ClaimStatus is the lifecycle state of a claim. Pending is the only
// non-terminal state; a decided claim is never reopened.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "Pending"
	ClaimApproved ClaimStatus = "Approved"
	ClaimRejected ClaimStatus = "Rejected"
)

func (s ClaimStatus) IsValid() bool {
	return s == ClaimPending || s == ClaimApproved || s == ClaimRejected
}

func (s ClaimStatus) Terminal() bool {
	return s == ClaimApproved || s == ClaimRejected
}

// Decision values accepted by the claim workflow. Pending is not a decision.
func (s ClaimStatus) IsDecision() bool {
	return s == ClaimApproved || s == ClaimRejected
}
