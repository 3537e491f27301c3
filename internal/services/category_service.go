package services

import (
	"log/slog"

	"github.com/campusfound/lostfound-backend/internal/models"
	"gorm.io/gorm"
)

var defaultCategories = []string{
	"Electronics",
	"Documents & Cards",
	"Keys",
	"Wallets & Bags",
	"Clothing",
	"Books & Stationery",
	"Jewelry & Accessories",
	"Sports Equipment",
	"Other",
}

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Seed inserts the default categories when the table is empty.
func (s *CategoryService) Seed() error {
	var count int64
	if err := s.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, len(defaultCategories))
	for i, name := range defaultCategories {
		categories[i] = models.Category{Name: name}
	}
	if err := s.db.Create(&categories).Error; err != nil {
		return err
	}

	slog.Info("categories seeded", "count", len(categories))
	return nil
}
