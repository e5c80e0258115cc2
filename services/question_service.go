package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/quiz_platform/database"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/anjiri1684/quiz_platform/utils"
	"github.com/google/uuid"
)

type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *models.Question) error
	UpdateQuestion(ctx context.Context, q *models.Question) error
	FindQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListQuestions(ctx context.Context, f database.QuestionFilter) ([]models.Question, int64, error)
	SetQuestionActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, c *models.Category) error
	FindCategory(ctx context.Context, id uint) (*models.Category, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	CreateDifficultyLevel(ctx context.Context, d *models.DifficultyLevel) error
	FindDifficultyLevel(ctx context.Context, id uint) (*models.DifficultyLevel, error)
	SaveDifficultyLevel(ctx context.Context, d *models.DifficultyLevel) error
	ListDifficultyLevels(ctx context.Context, activeOnly bool) ([]models.DifficultyLevel, error)
}

const (
	minOptions = 2
	maxOptions = 10
)

type OptionInput struct {
	ID         *uuid.UUID `json:"id"`
	OptionText string     `json:"option_text" validate:"required,max=1000"`
	IsCorrect  bool       `json:"is_correct"`
	OrderIndex *int       `json:"order_index" validate:"omitempty,min=0"`
}

type QuestionInput struct {
	CategoryID        uint          `json:"category_id" validate:"required"`
	DifficultyLevelID uint          `json:"difficulty_level_id" validate:"required"`
	QuestionText      string        `json:"question_text" validate:"required,max=5000"`
	Explanation       *string       `json:"explanation"`
	ImageURL          *string       `json:"image_url" validate:"omitempty,url"`
	AudioURL          *string       `json:"audio_url" validate:"omitempty,url"`
	IsActive          *bool         `json:"is_active"`
	Options           []OptionInput `json:"options" validate:"required,dive"`
}

type QuestionQuery struct {
	CategoryID        *uint
	DifficultyLevelID *uint
	AuthorID          *uuid.UUID
	Active            *bool
	Page              int
	Limit             int
}

type ReferenceInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=2000"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

type QuestionService struct {
	base
	store QuestionStore
}

func NewQuestionService(store QuestionStore, opts Options) *QuestionService {
	return &QuestionService{base: newBase(opts), store: store}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// buildOptions enforces the option-set invariants: a bounded count, exactly
// one correct option and unique 0-based order indexes.
func buildOptions(inputs []OptionInput) ([]models.Option, error) {
	if len(inputs) < minOptions || len(inputs) > maxOptions {
		return nil, invalid("a question needs between %d and %d options, got %d", minOptions, maxOptions, len(inputs))
	}

	correct := 0
	seen := make(map[int]bool, len(inputs))
	options := make([]models.Option, len(inputs))
	for i, in := range inputs {
		text := strings.TrimSpace(in.OptionText)
		if text == "" {
			return nil, invalid("option %d has no text", i)
		}
		order := i
		if in.OrderIndex != nil {
			order = *in.OrderIndex
		}
		if seen[order] {
			return nil, invalid("option order_index %d is used twice", order)
		}
		seen[order] = true
		if in.IsCorrect {
			correct++
		}
		options[i] = models.Option{OptionText: text, IsCorrect: in.IsCorrect, OrderIndex: order}
	}
	if correct != 1 {
		return nil, invalid("a question needs exactly one correct option, got %d", correct)
	}
	return options, nil
}

// matchOptions carries existing option IDs onto an edited option set so
// answers and in-progress attempts keep pointing at the same rows. An input
// naming an ID must name one of the question's options; inputs without an ID
// take over the unclaimed existing option at the same order index.
func matchOptions(current []models.Option, inputs []OptionInput, options []models.Option) error {
	byID := make(map[uuid.UUID]int, len(current))
	for i, o := range current {
		byID[o.ID] = i
	}
	claimed := make([]bool, len(current))
	for i, in := range inputs {
		if in.ID == nil {
			continue
		}
		j, ok := byID[*in.ID]
		if !ok {
			return invalid("option %s does not belong to this question", *in.ID)
		}
		if claimed[j] {
			return invalid("option %s is listed twice", *in.ID)
		}
		claimed[j] = true
		options[i].ID = *in.ID
	}
	for i, in := range inputs {
		if in.ID != nil {
			continue
		}
		for j, o := range current {
			if !claimed[j] && o.OrderIndex == options[i].OrderIndex {
				claimed[j] = true
				options[i].ID = o.ID
				break
			}
		}
	}
	return nil
}

func (s *QuestionService) prepare(ctx context.Context, in *QuestionInput) ([]models.Option, error) {
	in.Explanation = blankToNil(in.Explanation)
	in.ImageURL = blankToNil(in.ImageURL)
	in.AudioURL = blankToNil(in.AudioURL)
	in.QuestionText = strings.TrimSpace(in.QuestionText)

	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	options, err := buildOptions(in.Options)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindCategory(ctx, in.CategoryID); err != nil {
		return nil, storeError(ctx, "load category", "category", err)
	}
	if _, err := s.store.FindDifficultyLevel(ctx, in.DifficultyLevelID); err != nil {
		return nil, storeError(ctx, "load difficulty level", "difficulty level", err)
	}
	return options, nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, author Principal, in QuestionInput) (*models.Question, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !author.IsStaff() {
		return nil, forbidden("only tutors can author questions")
	}
	options, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}

	q := &models.Question{
		CategoryID:        in.CategoryID,
		DifficultyLevelID: in.DifficultyLevelID,
		QuestionText:      in.QuestionText,
		Explanation:       in.Explanation,
		ImageURL:          in.ImageURL,
		AudioURL:          in.AudioURL,
		IsActive:          in.IsActive == nil || *in.IsActive,
		AuthorID:          author.UserID,
		Options:           options,
	}
	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, storeError(ctx, "create question", "question", err)
	}
	return q, nil
}

func (s *QuestionService) ownedQuestion(ctx context.Context, editor Principal, id uuid.UUID) (*models.Question, error) {
	q, err := s.store.FindQuestion(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load question", "question", err)
	}
	if editor.Role != models.RoleSuperTutor && q.AuthorID != editor.UserID {
		return nil, forbidden("only the author can change this question")
	}
	return q, nil
}

// UpdateQuestion replaces the question's fields and syncs its options,
// keeping the IDs of options that survive the edit.
func (s *QuestionService) UpdateQuestion(ctx context.Context, editor Principal, id uuid.UUID, in QuestionInput) (*models.Question, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !editor.IsStaff() {
		return nil, forbidden("only tutors can edit questions")
	}
	q, err := s.ownedQuestion(ctx, editor, id)
	if err != nil {
		return nil, err
	}
	options, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}

	q.CategoryID = in.CategoryID
	q.DifficultyLevelID = in.DifficultyLevelID
	q.QuestionText = in.QuestionText
	q.Explanation = in.Explanation
	q.ImageURL = in.ImageURL
	q.AudioURL = in.AudioURL
	if in.IsActive != nil {
		q.IsActive = *in.IsActive
	}
	if err := matchOptions(q.Options, in.Options, options); err != nil {
		return nil, err
	}
	q.Options = options
	q.Category, q.DifficultyLevel = nil, nil

	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		if errors.Is(err, database.ErrInUse) {
			return nil, invalid("an answered option cannot be removed; deactivate the question instead")
		}
		return nil, storeError(ctx, "update question", "question", err)
	}
	return s.reload(ctx, q.ID)
}

func (s *QuestionService) reload(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	q, err := s.store.FindQuestion(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load question", "question", err)
	}
	return q, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, viewer Principal, id uuid.UUID) (*models.Question, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !viewer.IsStaff() {
		return nil, forbidden("only tutors can view the question bank")
	}
	return s.reload(ctx, id)
}

func (s *QuestionService) ListQuestions(ctx context.Context, viewer Principal, query QuestionQuery) (Page[models.Question], error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !viewer.IsStaff() {
		return Page[models.Question]{}, forbidden("only tutors can view the question bank")
	}
	page, limit, offset := utils.Paginate(query.Page, query.Limit)
	questions, total, err := s.store.ListQuestions(ctx, database.QuestionFilter{
		CategoryID:        query.CategoryID,
		DifficultyLevelID: query.DifficultyLevelID,
		AuthorID:          query.AuthorID,
		Active:            query.Active,
		Limit:             limit,
		Offset:            offset,
	})
	if err != nil {
		return Page[models.Question]{}, storeError(ctx, "list questions", "questions", err)
	}
	return newPage(questions, total, page, limit), nil
}

func (s *QuestionService) SetQuestionActive(ctx context.Context, editor Principal, id uuid.UUID, active bool) (*models.Question, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !editor.IsStaff() {
		return nil, forbidden("only tutors can edit questions")
	}
	if _, err := s.ownedQuestion(ctx, editor, id); err != nil {
		return nil, err
	}
	if err := s.store.SetQuestionActive(ctx, id, active); err != nil {
		return nil, storeError(ctx, "update question", "question", err)
	}
	return s.reload(ctx, id)
}

// DeleteQuestion hard-deletes an unanswered question and its options.
func (s *QuestionService) DeleteQuestion(ctx context.Context, editor Principal, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !editor.IsStaff() {
		return forbidden("only tutors can delete questions")
	}
	if _, err := s.ownedQuestion(ctx, editor, id); err != nil {
		return err
	}
	err := s.store.DeleteQuestion(ctx, id)
	if errors.Is(err, database.ErrInUse) {
		return invalid("question has recorded answers; deactivate it instead")
	}
	return storeError(ctx, "delete question", "question", err)
}

func (s *QuestionService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	categories, err := s.store.ListCategories(ctx, activeOnly)
	return categories, storeError(ctx, "list categories", "categories", err)
}

func (s *QuestionService) ListDifficultyLevels(ctx context.Context, activeOnly bool) ([]models.DifficultyLevel, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	levels, err := s.store.ListDifficultyLevels(ctx, activeOnly)
	return levels, storeError(ctx, "list difficulty levels", "difficulty levels", err)
}

func checkReference(editor Principal, in *ReferenceInput) error {
	if editor.Role != models.RoleSuperTutor {
		return forbidden("only super tutors can manage reference data")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

func referenceStoreError(ctx context.Context, op, what string, err error) error {
	if errors.Is(err, database.ErrDuplicate) {
		return invalid("%s name already exists", what)
	}
	return storeError(ctx, op, what, err)
}

func (s *QuestionService) CreateCategory(ctx context.Context, editor Principal, in ReferenceInput) (*models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := checkReference(editor, &in); err != nil {
		return nil, err
	}
	c := &models.Category{Name: in.Name, Description: in.Description, DisplayOrder: in.DisplayOrder, IsActive: in.IsActive == nil || *in.IsActive}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, referenceStoreError(ctx, "create category", "category", err)
	}
	return c, nil
}

func (s *QuestionService) UpdateCategory(ctx context.Context, editor Principal, id uint, in ReferenceInput) (*models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := checkReference(editor, &in); err != nil {
		return nil, err
	}
	c, err := s.store.FindCategory(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load category", "category", err)
	}
	c.Name, c.Description, c.DisplayOrder = in.Name, in.Description, in.DisplayOrder
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.store.SaveCategory(ctx, c); err != nil {
		return nil, referenceStoreError(ctx, "update category", "category", err)
	}
	return c, nil
}

func (s *QuestionService) CreateDifficultyLevel(ctx context.Context, editor Principal, in ReferenceInput) (*models.DifficultyLevel, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := checkReference(editor, &in); err != nil {
		return nil, err
	}
	d := &models.DifficultyLevel{Name: in.Name, Description: in.Description, DisplayOrder: in.DisplayOrder, IsActive: in.IsActive == nil || *in.IsActive}
	if err := s.store.CreateDifficultyLevel(ctx, d); err != nil {
		return nil, referenceStoreError(ctx, "create difficulty level", "difficulty level", err)
	}
	return d, nil
}

func (s *QuestionService) UpdateDifficultyLevel(ctx context.Context, editor Principal, id uint, in ReferenceInput) (*models.DifficultyLevel, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := checkReference(editor, &in); err != nil {
		return nil, err
	}
	d, err := s.store.FindDifficultyLevel(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load difficulty level", "difficulty level", err)
	}
	d.Name, d.Description, d.DisplayOrder = in.Name, in.Description, in.DisplayOrder
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if err := s.store.SaveDifficultyLevel(ctx, d); err != nil {
		return nil, referenceStoreError(ctx, "update difficulty level", "difficulty level", err)
	}
	return d, nil
}
