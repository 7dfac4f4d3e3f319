package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foodies-ua/backend/internal/models"
)

// LookupService serves the read-only reference tables and testimonials.
type LookupService struct {
	db *gorm.DB
}

func NewLookupService(db *gorm.DB) *LookupService {
	return &LookupService{db: db}
}

func (s *LookupService) Categories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LookupService) Areas(ctx context.Context) ([]models.Area, error) {
	var rows []models.Area
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LookupService) Ingredients(ctx context.Context) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TestimonialRow joins a testimonial with its author's name and avatar.
type TestimonialRow struct {
	ID          uint      `json:"id"`
	Testimonial string    `json:"testimonial"`
	OwnerName   string    `json:"owner_name"`
	OwnerAvatar string    `json:"owner_avatar"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *LookupService) Testimonials(ctx context.Context) ([]TestimonialRow, error) {
	var rows []TestimonialRow
	err := s.db.WithContext(ctx).
		Table("testimonials t").
		Select("t.id, t.testimonial, t.created_at, u.name AS owner_name, u.avatar AS owner_avatar").
		Joins("JOIN users u ON t.owner_id = u.id").
		Order("t.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []TestimonialRow{}
	}
	return rows, nil
}
