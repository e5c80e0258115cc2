package database

import (
	"context"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return create(ctx, s.db, user)
}

func (s *Store) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return first[models.User](ctx, s.db, "id = ?", id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](ctx, s.db, "email = ?", email)
}

func (s *Store) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns every user in insertion order, without password hashes.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).
		Select("id", "full_name", "email", "role", "is_active", "created_at").
		Order("created_at asc").
		Find(&users).Error
	return users, translate(err)
}
