package database

import (
	"context"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionFilter struct {
	CategoryID        *uint
	DifficultyLevelID *uint
	AuthorID          *uuid.UUID
	Active            *bool
	Limit             int
	Offset            int
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("order_index asc")
}

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) error {
	return translate(s.conn(ctx).Omit("Category", "DifficultyLevel").Create(q).Error)
}

// UpdateQuestion saves the question row and syncs its options in place.
// Options carrying an existing ID are updated, options with a nil ID are
// created and current options missing from q.Options are deleted. Deleting
// an option that answers reference returns ErrInUse.
func (s *Store) UpdateQuestion(ctx context.Context, q *models.Question) error {
	options := q.Options
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "DifficultyLevel", "Options").Save(q).Error; err != nil {
			return err
		}
		var current []models.Option
		if err := tx.Where("question_id = ?", q.ID).Find(&current).Error; err != nil {
			return err
		}

		kept := make(map[uuid.UUID]bool, len(options))
		for _, o := range options {
			if o.ID != uuid.Nil {
				kept[o.ID] = true
			}
		}
		var removed []uuid.UUID
		for _, o := range current {
			if !kept[o.ID] {
				removed = append(removed, o.ID)
			}
		}
		if len(removed) > 0 {
			var answered int64
			if err := tx.Model(&models.Answer{}).Where("selected_option_id IN ?", removed).Count(&answered).Error; err != nil {
				return err
			}
			if answered > 0 {
				return ErrInUse
			}
			if err := tx.Where("id IN ?", removed).Delete(&models.Option{}).Error; err != nil {
				return err
			}
		}

		// Kept options move to negative order indexes first so reordering
		// never collides on idx_option_question_order.
		for i, o := range options {
			if o.ID == uuid.Nil {
				continue
			}
			res := tx.Model(&models.Option{}).
				Where("id = ? AND question_id = ?", o.ID, q.ID).
				Update("order_index", -(i + 1))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		for i := range options {
			options[i].QuestionID = q.ID
			if options[i].ID == uuid.Nil {
				continue
			}
			err := tx.Model(&models.Option{}).Where("id = ?", options[i].ID).Updates(map[string]any{
				"option_text": options[i].OptionText,
				"is_correct":  options[i].IsCorrect,
				"order_index": options[i].OrderIndex,
			}).Error
			if err != nil {
				return err
			}
		}
		for i := range options {
			if options[i].ID != uuid.Nil {
				continue
			}
			if err := tx.Create(&options[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	q.Options = options
	return translate(err)
}

func (s *Store) FindQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var q models.Question
	err := s.conn(ctx).
		Preload("Options", orderedOptions).
		Preload("Category").
		Preload("DifficultyLevel").
		First(&q, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *Store) FindQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := s.conn(ctx).
		Preload("Options", orderedOptions).
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, translate(err)
}

func (f QuestionFilter) scope(db *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if f.DifficultyLevelID != nil {
		db = db.Where("difficulty_level_id = ?", *f.DifficultyLevelID)
	}
	if f.AuthorID != nil {
		db = db.Where("author_id = ?", *f.AuthorID)
	}
	if f.Active != nil {
		db = db.Where("is_active = ?", *f.Active)
	}
	return db
}

func (s *Store) ListQuestions(ctx context.Context, f QuestionFilter) ([]models.Question, int64, error) {
	var total int64
	countQuery := s.conn(ctx).Model(&models.Question{}).Scopes(f.scope)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var questions []models.Question
	err := s.conn(ctx).Scopes(f.scope).
		Preload("Options", orderedOptions).
		Preload("Category").
		Preload("DifficultyLevel").
		Order("created_at desc").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&questions).Error
	return questions, total, translate(err)
}

// ActiveQuestionsFor returns every active question of the pair, options included.
func (s *Store) ActiveQuestionsFor(ctx context.Context, categoryID, difficultyID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.conn(ctx).
		Preload("Options", orderedOptions).
		Where("category_id = ? AND difficulty_level_id = ? AND is_active = ?", categoryID, difficultyID, true).
		Order("created_at asc").
		Find(&questions).Error
	return questions, translate(err)
}

func (s *Store) SetQuestionActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := s.conn(ctx).Model(&models.Question{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuestion removes a question and its options unless answers reference it.
func (s *Store) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var answered int64
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", id).Count(&answered).Error; err != nil {
			return err
		}
		if answered > 0 {
			return ErrInUse
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Question{})
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

// ListQuestionSummaries returns questions without options for aggregation,
// optionally restricted to one author.
func (s *Store) ListQuestionSummaries(ctx context.Context, authorID *uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	q := s.conn(ctx).
		Select("id", "category_id", "difficulty_level_id", "is_active", "author_id", "created_at").
		Preload("Category").
		Preload("DifficultyLevel").
		Order("created_at asc")
	if authorID != nil {
		q = q.Where("author_id = ?", *authorID)
	}
	return questions, translate(q.Find(&questions).Error)
}
