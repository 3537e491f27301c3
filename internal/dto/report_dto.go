package dto

import "github.com/campusfound/lostfound-backend/internal/models"

type CreateReportRequest struct {
	Kind        models.ReportKind `json:"kind"`
	CategoryID  uint              `json:"category_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	OccurredOn  string            `json:"occurred_on"` // YYYY-MM-DD
	ImageURL    string            `json:"image_url,omitempty"`
}

type UpdateReportStatusRequest struct {
	Status models.ReportStatus `json:"status"`
}

type SetReportImageRequest struct {
	ImageURL string `json:"image_url"`
}

// ReportFilters mirrors the list query parameters. Zero values mean
// "no filter"; Search matches title or description.
type ReportFilters struct {
	Kind       models.ReportKind
	CategoryID uint
	Location   string
	Search     string
}

type UploadResponse struct {
	URL string `json:"url"`
}
