package authz

import (
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IsAdmin reads the actor's role from the users table. The database is the
// only authority on roles; callers must not infer admin from token contents.
func IsAdmin(db *gorm.DB, actorID uuid.UUID) (bool, error) {
	var user models.User
	if err := db.Select("role").First(&user, "id = ?", actorID).Error; err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// CanTransitionClaim reports whether the actor may decide claims against the
// given report: the report owner may, and so may an admin. This runs at the
// data-access boundary so client-side checks cannot bypass it.
func CanTransitionClaim(db *gorm.DB, actorID uuid.UUID, report *models.Report) (bool, error) {
	if actorID == uuid.Nil || report == nil {
		return false, nil
	}
	if actorID == report.UserID {
		return true, nil
	}
	return IsAdmin(db, actorID)
}
