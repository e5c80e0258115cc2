package services

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/anjiri1684/quiz_platform/database"
	"github.com/anjiri1684/quiz_platform/events"
	"github.com/anjiri1684/quiz_platform/metrics"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/anjiri1684/quiz_platform/reports"
	"github.com/anjiri1684/quiz_platform/utils"
	"github.com/google/uuid"
)

type AttemptStore interface {
	ActiveQuestionsFor(ctx context.Context, categoryID, difficultyID uint) ([]models.Question, error)
	FindQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Question, error)
	CreateAttempt(ctx context.Context, a *models.Attempt) error
	FindAttempt(ctx context.Context, id uuid.UUID) (*models.Attempt, error)
	ListAttemptsByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]models.Attempt, int64, error)
	ListAnswers(ctx context.Context, attemptID uuid.UUID) ([]models.Answer, error)
	RecordAnswers(ctx context.Context, attemptID uuid.UUID, expectedVersion int, answers []models.Answer) error
	SubmitAttempt(ctx context.Context, attemptID uuid.UUID, expectedVersion int, answers []models.Answer, grade database.GradeFunc) (*models.Attempt, []models.Answer, error)
	DeleteAttempt(ctx context.Context, id uuid.UUID) error
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type StartInput struct {
	CategoryID        uint `json:"category_id" validate:"required"`
	DifficultyLevelID uint `json:"difficulty_level_id" validate:"required"`
	QuestionCount     int  `json:"question_count" validate:"min=1,max=100"`
}

type AnswerInput struct {
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedOptionID uuid.UUID `json:"selected_option_id"`
}

type SubmitInput struct {
	Answers   []AnswerInput `json:"answers"`
	TimeTaken *int          `json:"time_taken"`
}

// ServedQuestion is a question as a student sees it: no correctness flags.
type ServedQuestion struct {
	ID           uuid.UUID      `json:"id"`
	QuestionText string         `json:"question_text"`
	ImageURL     *string        `json:"image_url,omitempty"`
	AudioURL     *string        `json:"audio_url,omitempty"`
	Options      []ServedOption `json:"options"`
}

type ServedOption struct {
	ID         uuid.UUID `json:"id"`
	OptionText string    `json:"option_text"`
	OrderIndex int       `json:"order_index"`
}

type StartedAttempt struct {
	Attempt   *models.Attempt  `json:"attempt"`
	Questions []ServedQuestion `json:"questions"`
}

type RecordResult struct {
	Recorded  int `json:"recorded"`
	Answered  int `json:"answered"`
	Remaining int `json:"remaining"`
}

type SubmitResult struct {
	Attempt        *models.Attempt `json:"attempt"`
	Answers        []models.Answer `json:"answers"`
	CorrectAnswers int             `json:"correct_answers"`
	Answered       int             `json:"answered"`
	Score          int             `json:"score"`
}

type AttemptService struct {
	base
	store AttemptStore
}

func NewAttemptService(store AttemptStore, opts Options) *AttemptService {
	return &AttemptService{base: newBase(opts), store: store}
}

func serve(q models.Question) ServedQuestion {
	out := ServedQuestion{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		ImageURL:     q.ImageURL,
		AudioURL:     q.AudioURL,
		Options:      make([]ServedOption, len(q.Options)),
	}
	for i, o := range q.Options {
		out.Options[i] = ServedOption{ID: o.ID, OptionText: o.OptionText, OrderIndex: o.OrderIndex}
	}
	return out
}

// Start draws up to QuestionCount random active questions for the pair and
// opens an attempt over them. An incomplete earlier attempt does not block
// a new one.
func (s *AttemptService) Start(ctx context.Context, student Principal, in StartInput) (*StartedAttempt, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if student.Role != models.RoleStudent {
		return nil, forbidden("only students can take quizzes")
	}
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	pool, err := s.store.ActiveQuestionsFor(ctx, in.CategoryID, in.DifficultyLevelID)
	if err != nil {
		return nil, storeError(ctx, "load questions", "questions", err)
	}
	if len(pool) == 0 {
		return nil, notFound("no active questions for this category and difficulty")
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > in.QuestionCount {
		pool = pool[:in.QuestionCount]
	}

	attempt := &models.Attempt{
		StudentID:         student.UserID,
		CategoryID:        in.CategoryID,
		DifficultyLevelID: in.DifficultyLevelID,
		TotalQuestions:    len(pool),
		StartedAt:         s.now(),
		Status:            models.AttemptInProgress,
		Version:           1,
	}
	if err := s.store.CreateAttempt(ctx, attempt); err != nil {
		return nil, storeError(ctx, "create attempt", "attempt", err)
	}

	served := make([]ServedQuestion, len(pool))
	for i, q := range pool {
		served[i] = serve(q)
	}

	metrics.AttemptStarted()
	s.emit(events.AttemptStarted, map[string]any{
		"attempt_id":      attempt.ID,
		"student_id":      attempt.StudentID,
		"total_questions": attempt.TotalQuestions,
	})
	return &StartedAttempt{Attempt: attempt, Questions: served}, nil
}

// visibleAttempt loads an attempt the principal may see. Students only see
// their own; anything else reads as missing.
func (s *AttemptService) visibleAttempt(ctx context.Context, p Principal, id uuid.UUID) (*models.Attempt, error) {
	a, err := s.store.FindAttempt(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load attempt", "attempt", err)
	}
	if !p.IsStaff() && a.StudentID != p.UserID {
		return nil, notFound("attempt not found")
	}
	return a, nil
}

func (s *AttemptService) GetAttempt(ctx context.Context, p Principal, id uuid.UUID) (*models.Attempt, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.visibleAttempt(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if a.IsCompleted {
		answers, err := s.store.ListAnswers(ctx, a.ID)
		if err != nil {
			return nil, storeError(ctx, "load answers", "answers", err)
		}
		a.Answers = answers
	}
	return a, nil
}

func (s *AttemptService) ListStudentAttempts(ctx context.Context, p Principal, studentID uuid.UUID, page, limit int) (Page[models.Attempt], error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !p.IsStaff() && studentID != p.UserID {
		return Page[models.Attempt]{}, forbidden("students can only list their own attempts")
	}
	page, limit, offset := utils.Paginate(page, limit)
	attempts, total, err := s.store.ListAttemptsByStudent(ctx, studentID, limit, offset)
	if err != nil {
		return Page[models.Attempt]{}, storeError(ctx, "list attempts", "attempts", err)
	}
	return newPage(attempts, total, page, limit), nil
}

// prepareAnswers validates a batch against the attempt and the answers it
// already holds, and resolves correctness from the chosen option.
func (s *AttemptService) prepareAnswers(ctx context.Context, a *models.Attempt, inputs []AnswerInput, existing []models.Answer) ([]models.Answer, error) {
	seen := make(map[uuid.UUID]bool, len(existing)+len(inputs))
	for _, ans := range existing {
		seen[ans.QuestionID] = true
	}
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		if in.QuestionID == uuid.Nil || in.SelectedOptionID == uuid.Nil {
			return nil, invalid("question_id and selected_option_id are required")
		}
		if seen[in.QuestionID] {
			return nil, newError(KindDuplicateAnswer, "question %s is already answered", in.QuestionID)
		}
		seen[in.QuestionID] = true
		ids = append(ids, in.QuestionID)
	}
	if len(existing)+len(inputs) > a.TotalQuestions {
		return nil, invalid("attempt has %d questions, cannot record %d answers", a.TotalQuestions, len(existing)+len(inputs))
	}

	questions, err := s.store.FindQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(ctx, "load questions", "questions", err)
	}
	byID := make(map[uuid.UUID]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	now := s.now()
	answers := make([]models.Answer, 0, len(inputs))
	for _, in := range inputs {
		q, ok := byID[in.QuestionID]
		if !ok {
			return nil, notFound("question %s not found", in.QuestionID)
		}
		if q.CategoryID != a.CategoryID || q.DifficultyLevelID != a.DifficultyLevelID {
			return nil, invalid("question %s does not belong to this attempt", q.ID)
		}
		opt := q.FindOption(in.SelectedOptionID)
		if opt == nil {
			return nil, invalid("option %s does not belong to question %s", in.SelectedOptionID, q.ID)
		}
		answers = append(answers, models.Answer{
			AttemptID:        a.ID,
			QuestionID:       q.ID,
			SelectedOptionID: opt.ID,
			IsCorrect:        opt.IsCorrect,
			AnsweredAt:       now,
		})
	}
	return answers, nil
}

func (s *AttemptService) openAttempt(ctx context.Context, student Principal, id uuid.UUID) (*models.Attempt, error) {
	a, err := s.store.FindAttempt(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load attempt", "attempt", err)
	}
	if a.StudentID != student.UserID {
		return nil, notFound("attempt not found")
	}
	if a.IsCompleted {
		return nil, newError(KindAlreadySubmitted, "attempt was already submitted")
	}
	return a, nil
}

func answerWriteError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, database.ErrConflict):
		return err
	case errors.Is(err, database.ErrDuplicate):
		return newError(KindDuplicateAnswer, "a question in this batch is already answered")
	}
	return storeError(ctx, op, "attempt", err)
}

// maxWriteTries bounds how often a write is replayed after a concurrent
// write to the same attempt moved its version.
const maxWriteTries = 3

// writeOpenAttempt runs write against a fresh read of the caller's open
// attempt and its recorded answers, replaying it when the store reports a
// lost claim.
func (s *AttemptService) writeOpenAttempt(ctx context.Context, student Principal, id uuid.UUID, write func(a *models.Attempt, existing []models.Answer) error) error {
	for range maxWriteTries {
		a, err := s.openAttempt(ctx, student, id)
		if err != nil {
			return err
		}
		existing, err := s.store.ListAnswers(ctx, a.ID)
		if err != nil {
			return storeError(ctx, "load answers", "answers", err)
		}
		if err := write(a, existing); !errors.Is(err, database.ErrConflict) {
			return err
		}
	}
	if _, err := s.openAttempt(ctx, student, id); err != nil {
		return err
	}
	return newError(KindUpstream, "attempt is being modified concurrently, try again")
}

// RecordAnswers stores a partial answer set on an attempt in progress.
func (s *AttemptService) RecordAnswers(ctx context.Context, student Principal, id uuid.UUID, inputs []AnswerInput) (*RecordResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if len(inputs) == 0 {
		return nil, invalid("no answers given")
	}
	var res *RecordResult
	err := s.writeOpenAttempt(ctx, student, id, func(a *models.Attempt, existing []models.Answer) error {
		answers, err := s.prepareAnswers(ctx, a, inputs, existing)
		if err != nil {
			return err
		}
		if err := s.store.RecordAnswers(ctx, a.ID, a.Version, answers); err != nil {
			return answerWriteError(ctx, "record answers", err)
		}
		answered := len(existing) + len(answers)
		res = &RecordResult{Recorded: len(answers), Answered: answered, Remaining: a.TotalQuestions - answered}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Submit records any final answers and grades the attempt exactly once.
func (s *AttemptService) Submit(ctx context.Context, student Principal, id uuid.UUID, in SubmitInput) (*SubmitResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		graded *models.Attempt
		all    []models.Answer
	)
	err := s.writeOpenAttempt(ctx, student, id, func(a *models.Attempt, existing []models.Answer) error {
		answers, err := s.prepareAnswers(ctx, a, in.Answers, existing)
		if err != nil {
			return err
		}

		completedAt := s.now()
		timeTaken := int(completedAt.Sub(a.StartedAt).Seconds())
		if in.TimeTaken != nil && *in.TimeTaken >= 0 {
			timeTaken = *in.TimeTaken
		}
		timeTaken = max(timeTaken, 0)

		graded, all, err = s.store.SubmitAttempt(ctx, a.ID, a.Version, answers, func(all []models.Answer) models.Grade {
			correct, score := ComputeScore(all)
			return models.Grade{CorrectAnswers: correct, Score: score, TimeTaken: timeTaken, CompletedAt: completedAt}
		})
		if err != nil {
			return answerWriteError(ctx, "submit attempt", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			metrics.SubmissionRejected()
		}
		return nil, err
	}

	metrics.AttemptGraded(graded.Score)
	s.emit(events.AttemptSubmitted, map[string]any{
		"attempt_id":      graded.ID,
		"student_id":      graded.StudentID,
		"score":           graded.Score,
		"correct_answers": graded.CorrectAnswers,
		"answered":        len(all),
	})
	graded.Answers = all
	return &SubmitResult{
		Attempt:        graded,
		Answers:        all,
		CorrectAnswers: graded.CorrectAnswers,
		Answered:       len(all),
		Score:          graded.Score,
	}, nil
}

// DeleteAttempt removes an attempt and its answers.
func (s *AttemptService) DeleteAttempt(ctx context.Context, p Principal, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if p.Role != models.RoleSuperTutor {
		return forbidden("only super tutors can delete attempts")
	}
	return storeError(ctx, "delete attempt", "attempt", s.store.DeleteAttempt(ctx, id))
}

// Report assembles the printable result sheet of a graded attempt.
func (s *AttemptService) Report(ctx context.Context, p Principal, id uuid.UUID) (reports.AttemptReport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.visibleAttempt(ctx, p, id)
	if err != nil {
		return reports.AttemptReport{}, err
	}
	if !a.IsCompleted || a.CompletedAt == nil {
		return reports.AttemptReport{}, invalid("attempt has not been submitted yet")
	}

	answers, err := s.store.ListAnswers(ctx, a.ID)
	if err != nil {
		return reports.AttemptReport{}, storeError(ctx, "load answers", "answers", err)
	}
	ids := make([]uuid.UUID, len(answers))
	for i, ans := range answers {
		ids[i] = ans.QuestionID
	}
	questions, err := s.store.FindQuestionsByIDs(ctx, ids)
	if err != nil {
		return reports.AttemptReport{}, storeError(ctx, "load questions", "questions", err)
	}
	byID := make(map[uuid.UUID]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	student, err := s.store.FindUser(ctx, a.StudentID)
	if err != nil {
		return reports.AttemptReport{}, storeError(ctx, "load student", "student", err)
	}

	r := reports.AttemptReport{
		AttemptID:      a.ID.String(),
		StudentName:    student.FullName,
		Score:          a.Score,
		CorrectAnswers: a.CorrectAnswers,
		Answered:       len(answers),
		TotalQuestions: a.TotalQuestions,
		TimeTaken:      a.TimeTaken,
		CompletedAt:    *a.CompletedAt,
		Items:          make([]reports.ReportItem, 0, len(answers)),
	}
	if a.Category != nil {
		r.Category = a.Category.Name
	}
	if a.DifficultyLevel != nil {
		r.Difficulty = a.DifficultyLevel.Name
	}
	for i, ans := range answers {
		item := reports.ReportItem{Number: i + 1, IsCorrect: ans.IsCorrect}
		if q, ok := byID[ans.QuestionID]; ok {
			item.QuestionText = q.QuestionText
			if q.Explanation != nil {
				item.Explanation = *q.Explanation
			}
			if opt := q.FindOption(ans.SelectedOptionID); opt != nil {
				item.SelectedOption = opt.OptionText
			}
			if opt := q.CorrectOption(); opt != nil {
				item.CorrectOption = opt.OptionText
			}
		}
		r.Items = append(r.Items, item)
	}
	return r, nil
}
