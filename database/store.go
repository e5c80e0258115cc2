package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict means a conditional update matched no row.
	ErrConflict = errors.New("stale write")
	ErrInUse    = errors.New("record is still referenced")
)

// Store is the gorm-backed relational store used by every service.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInUse), errors.Is(err, ErrNotFound):
		return err
	}
	return fmt.Errorf("database: %w", err)
}

func create[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return translate(db.WithContext(ctx).Omit(assocFields...).Create(row).Error)
}

func first[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func save[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return translate(db.WithContext(ctx).Omit(assocFields...).Save(row).Error)
}

func deleteWhere[T any](ctx context.Context, db *gorm.DB, query string, args ...any) error {
	var row T
	res := db.WithContext(ctx).Where(query, args...).Delete(&row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// assocFields are the belongs-to relations that must never be upserted
// as a side effect of writing the owning row.
var assocFields = []string{"Student", "Tutor", "Category", "DifficultyLevel", "Answers"}
