package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is a persisted delivery intent. Actual delivery (email, push)
// is not implemented; clients poll or watch the realtime feed.
type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Event     string         `gorm:"size:50;not null" json:"event"`
	Payload   datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"payload"`
	Read      bool           `gorm:"default:false" json:"read"`
	CreatedAt time.Time      `json:"created_at"`
}

const (
	EventClaimCreated = "claim.created"
	EventClaimDecided = "claim.decided"
)
