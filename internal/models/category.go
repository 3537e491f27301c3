package models

// Category is flat lookup data (electronics, documents, keys, ...).
// Seeded at startup, read-only through the API.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;not null;uniqueIndex" json:"name"`
}
