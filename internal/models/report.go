package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a lost or found item notice. Kind and owner are immutable after
// creation; status is mutated only by the claim workflow or by an explicit
// owner/admin action. Reports are never hard-deleted.
type Report struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  uint         `gorm:"not null;index" json:"category_id"`
	Kind        ReportKind   `gorm:"size:20;not null;index" json:"kind"`
	Title       string       `gorm:"size:100;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Location    string       `gorm:"size:200;not null" json:"location"`
	OccurredOn  time.Time    `gorm:"not null" json:"occurred_on"`
	ImageURL    *string      `gorm:"size:500" json:"image_url,omitempty"`
	Status      ReportStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Owner    *User     `gorm:"foreignKey:UserID" json:"owner,omitempty"`
}
