package database

import (
	"context"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeFunc turns the full answer set of an attempt into its grade.
type GradeFunc func(answers []models.Answer) models.Grade

func (s *Store) CreateAttempt(ctx context.Context, a *models.Attempt) error {
	return create(ctx, s.db, a)
}

func (s *Store) FindAttempt(ctx context.Context, id uuid.UUID) (*models.Attempt, error) {
	var a models.Attempt
	err := s.conn(ctx).
		Preload("Category").
		Preload("DifficultyLevel").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *Store) ListAttemptsByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]models.Attempt, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&models.Attempt{}).Where("student_id = ?", studentID).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var attempts []models.Attempt
	err := s.conn(ctx).
		Preload("Category").
		Preload("DifficultyLevel").
		Where("student_id = ?", studentID).
		Order("started_at desc").
		Offset(offset).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, translate(err)
}

// ListCompletedAttempts returns graded attempts oldest first; a nil studentID
// means every student.
func (s *Store) ListCompletedAttempts(ctx context.Context, studentID *uuid.UUID) ([]models.Attempt, error) {
	var attempts []models.Attempt
	q := s.conn(ctx).
		Preload("Category").
		Preload("DifficultyLevel").
		Where("is_completed = ?", true).
		Order("started_at asc")
	if studentID != nil {
		q = q.Where("student_id = ?", *studentID)
	}
	return attempts, translate(q.Find(&attempts).Error)
}

func (s *Store) ListAnswers(ctx context.Context, attemptID uuid.UUID) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.conn(ctx).Where("attempt_id = ?", attemptID).Order("answered_at asc").Find(&answers).Error
	return answers, translate(err)
}

func (s *Store) ListAnswersForQuestions(ctx context.Context, questionIDs []uuid.UUID) ([]models.Answer, error) {
	var answers []models.Answer
	if len(questionIDs) == 0 {
		return answers, nil
	}
	err := s.conn(ctx).Where("question_id IN ?", questionIDs).Find(&answers).Error
	return answers, translate(err)
}

// claimAttempt bumps the version of an attempt still open at expectedVersion.
// Any other writer that read the same version then fails its own claim.
func claimAttempt(tx *gorm.DB, attemptID uuid.UUID, expectedVersion int) error {
	res := tx.Model(&models.Attempt{}).
		Where("id = ? AND version = ? AND is_completed = ?", attemptID, expectedVersion, false).
		Update("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// RecordAnswers inserts answers on an attempt that is still open at
// expectedVersion, in one transaction. It returns ErrConflict when the attempt
// was graded or written to since it was read; nothing is inserted then.
func (s *Store) RecordAnswers(ctx context.Context, attemptID uuid.UUID, expectedVersion int, answers []models.Answer) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimAttempt(tx, attemptID, expectedVersion); err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		return tx.Create(&answers).Error
	})
	return translate(err)
}

// SubmitAttempt inserts the final answers and grades the attempt in one
// transaction. The attempt is claimed before anything is inserted, so a
// submit or record that lost the race gets ErrConflict and writes nothing.
func (s *Store) SubmitAttempt(ctx context.Context, attemptID uuid.UUID, expectedVersion int, answers []models.Answer, grade GradeFunc) (*models.Attempt, []models.Answer, error) {
	var (
		graded models.Attempt
		all    []models.Answer
	)
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimAttempt(tx, attemptID, expectedVersion); err != nil {
			return err
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("attempt_id = ?", attemptID).Order("answered_at asc").Find(&all).Error; err != nil {
			return err
		}

		g := grade(all)
		res := tx.Model(&models.Attempt{}).
			Where("id = ? AND version = ? AND is_completed = ?", attemptID, expectedVersion+1, false).
			Updates(map[string]any{
				"correct_answers": g.CorrectAnswers,
				"score":           g.Score,
				"time_taken":      g.TimeTaken,
				"completed_at":    g.CompletedAt,
				"is_completed":    true,
				"status":          models.AttemptGraded,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		return tx.Preload("Category").Preload("DifficultyLevel").First(&graded, "id = ?", attemptID).Error
	})
	if err != nil {
		return nil, nil, translate(err)
	}
	return &graded, all, nil
}

// DeleteAttempt removes an attempt together with the answers it owns.
func (s *Store) DeleteAttempt(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attempt_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Attempt{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}
