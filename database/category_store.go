package database

import (
	"context"

	"github.com/anjiri1684/quiz_platform/models"
)

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return create(ctx, s.db, c)
}

func (s *Store) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	return first[models.Category](ctx, s.db, "id = ?", id)
}

func (s *Store) SaveCategory(ctx context.Context, c *models.Category) error {
	return save(ctx, s.db, c)
}

func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var categories []models.Category
	q := s.conn(ctx).Order("display_order asc, name asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return categories, translate(q.Find(&categories).Error)
}

func (s *Store) CreateDifficultyLevel(ctx context.Context, d *models.DifficultyLevel) error {
	return create(ctx, s.db, d)
}

func (s *Store) FindDifficultyLevel(ctx context.Context, id uint) (*models.DifficultyLevel, error) {
	return first[models.DifficultyLevel](ctx, s.db, "id = ?", id)
}

func (s *Store) SaveDifficultyLevel(ctx context.Context, d *models.DifficultyLevel) error {
	return save(ctx, s.db, d)
}

func (s *Store) ListDifficultyLevels(ctx context.Context, activeOnly bool) ([]models.DifficultyLevel, error) {
	var levels []models.DifficultyLevel
	q := s.conn(ctx).Order("display_order asc, name asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return levels, translate(q.Find(&levels).Error)
}
