package database

import (
	"context"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

func (s *Store) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return create(ctx, s.db, f)
}

func (s *Store) FindFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	return first[models.Feedback](ctx, s.db, "id = ?", id)
}

func (s *Store) SaveFeedback(ctx context.Context, f *models.Feedback) error {
	return save(ctx, s.db, f)
}

func (s *Store) DeleteFeedback(ctx context.Context, id uuid.UUID) error {
	return deleteWhere[models.Feedback](ctx, s.db, "id = ?", id)
}

func (s *Store) ListFeedbackByAttempt(ctx context.Context, attemptID uuid.UUID) ([]models.Feedback, error) {
	var rows []models.Feedback
	err := s.conn(ctx).
		Preload("Tutor").
		Where("attempt_id = ?", attemptID).
		Order("created_at asc").
		Find(&rows).Error
	return rows, translate(err)
}

// ListFeedbackForStudent returns the newest tutor feedback a student received.
func (s *Store) ListFeedbackForStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]models.Feedback, error) {
	var rows []models.Feedback
	err := s.conn(ctx).
		Preload("Tutor").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	return rows, translate(err)
}

func (s *Store) CreateStudentFeedback(ctx context.Context, f *models.StudentFeedback) error {
	return create(ctx, s.db, f)
}

func (s *Store) FindStudentFeedback(ctx context.Context, id uuid.UUID) (*models.StudentFeedback, error) {
	return first[models.StudentFeedback](ctx, s.db, "id = ?", id)
}

func (s *Store) SaveStudentFeedback(ctx context.Context, f *models.StudentFeedback) error {
	return save(ctx, s.db, f)
}

func (s *Store) DeleteStudentFeedback(ctx context.Context, id uuid.UUID) error {
	return deleteWhere[models.StudentFeedback](ctx, s.db, "id = ?", id)
}

func (s *Store) ListStudentFeedbackByAttempt(ctx context.Context, attemptID uuid.UUID) ([]models.StudentFeedback, error) {
	var rows []models.StudentFeedback
	err := s.conn(ctx).
		Preload("Student").
		Where("attempt_id = ?", attemptID).
		Order("created_at asc").
		Find(&rows).Error
	return rows, translate(err)
}
