package services

import (
	"context"
	"strings"

	"github.com/anjiri1684/quiz_platform/events"
	"github.com/anjiri1684/quiz_platform/metrics"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

type FeedbackStore interface {
	FindAttempt(ctx context.Context, id uuid.UUID) (*models.Attempt, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreateFeedback(ctx context.Context, f *models.Feedback) error
	FindFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error)
	SaveFeedback(ctx context.Context, f *models.Feedback) error
	DeleteFeedback(ctx context.Context, id uuid.UUID) error
	ListFeedbackByAttempt(ctx context.Context, attemptID uuid.UUID) ([]models.Feedback, error)

	CreateStudentFeedback(ctx context.Context, f *models.StudentFeedback) error
	FindStudentFeedback(ctx context.Context, id uuid.UUID) (*models.StudentFeedback, error)
	SaveStudentFeedback(ctx context.Context, f *models.StudentFeedback) error
	DeleteStudentFeedback(ctx context.Context, id uuid.UUID) error
	ListStudentFeedbackByAttempt(ctx context.Context, attemptID uuid.UUID) ([]models.StudentFeedback, error)
}

const (
	minRating = 1
	maxRating = 5
)

type FeedbackInput struct {
	Body            string  `json:"body" validate:"required,max=5000"`
	Recommendations *string `json:"recommendations" validate:"omitempty,max=5000"`
	Rating          *int    `json:"rating"`
}

type StudentFeedbackInput struct {
	TutorID uuid.UUID `json:"tutor_id"`
	FeedbackInput
}

// AttemptFeedback holds both directions of feedback on one attempt.
type AttemptFeedback struct {
	TutorFeedback   []models.Feedback        `json:"tutor_feedback"`
	StudentFeedback []models.StudentFeedback `json:"student_feedback"`
}

type FeedbackService struct {
	base
	store FeedbackStore
}

func NewFeedbackService(store FeedbackStore, opts Options) *FeedbackService {
	return &FeedbackService{base: newBase(opts), store: store}
}

func (in *FeedbackInput) check() error {
	in.Body = strings.TrimSpace(in.Body)
	in.Recommendations = blankToNil(in.Recommendations)
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}
	if in.Rating != nil && (*in.Rating < minRating || *in.Rating > maxRating) {
		return invalid("rating must be between %d and %d", minRating, maxRating)
	}
	return nil
}

func (s *FeedbackService) completedAttempt(ctx context.Context, id uuid.UUID) (*models.Attempt, error) {
	a, err := s.store.FindAttempt(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load attempt", "attempt", err)
	}
	if !a.IsCompleted {
		return nil, invalid("feedback can only be given on a submitted attempt")
	}
	return a, nil
}

func (s *FeedbackService) CreateFeedback(ctx context.Context, tutor Principal, attemptID uuid.UUID, in FeedbackInput) (*models.Feedback, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !tutor.IsStaff() {
		return nil, forbidden("only tutors can give attempt feedback")
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	a, err := s.completedAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	f := &models.Feedback{
		AttemptID:       a.ID,
		StudentID:       a.StudentID,
		TutorID:         tutor.UserID,
		Body:            in.Body,
		Recommendations: in.Recommendations,
		Rating:          in.Rating,
	}
	if err := s.store.CreateFeedback(ctx, f); err != nil {
		return nil, storeError(ctx, "create feedback", "feedback", err)
	}

	metrics.FeedbackCreated("tutor")
	s.emit(events.FeedbackCreated, map[string]any{
		"feedback_id": f.ID,
		"direction":   "tutor",
		"attempt_id":  f.AttemptID,
		"student_id":  f.StudentID,
		"tutor_id":    f.TutorID,
	})
	return f, nil
}

func (s *FeedbackService) CreateStudentFeedback(ctx context.Context, student Principal, attemptID uuid.UUID, in StudentFeedbackInput) (*models.StudentFeedback, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if student.Role != models.RoleStudent {
		return nil, forbidden("only students can give tutor feedback")
	}
	if in.TutorID == uuid.Nil {
		return nil, invalid("tutor_id is required")
	}
	if err := in.check(); err != nil {
		return nil, err
	}
	a, err := s.completedAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.StudentID != student.UserID {
		return nil, notFound("attempt not found")
	}
	tutor, err := s.store.FindUser(ctx, in.TutorID)
	if err != nil {
		return nil, storeError(ctx, "load tutor", "tutor", err)
	}
	if !models.IsStaff(tutor.Role) {
		return nil, invalid("tutor_id does not name a tutor")
	}

	f := &models.StudentFeedback{
		AttemptID:       a.ID,
		StudentID:       student.UserID,
		TutorID:         tutor.ID,
		Body:            in.Body,
		Recommendations: in.Recommendations,
		Rating:          in.Rating,
	}
	if err := s.store.CreateStudentFeedback(ctx, f); err != nil {
		return nil, storeError(ctx, "create feedback", "feedback", err)
	}

	metrics.FeedbackCreated("student")
	s.emit(events.FeedbackCreated, map[string]any{
		"feedback_id": f.ID,
		"direction":   "student",
		"attempt_id":  f.AttemptID,
		"student_id":  f.StudentID,
		"tutor_id":    f.TutorID,
	})
	return f, nil
}

// UpdateFeedback fully replaces body, rating and recommendations. Feedback
// written by someone else reads as missing.
func (s *FeedbackService) UpdateFeedback(ctx context.Context, tutor Principal, id uuid.UUID, in FeedbackInput) (*models.Feedback, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := in.check(); err != nil {
		return nil, err
	}
	f, err := s.store.FindFeedback(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load feedback", "feedback", err)
	}
	if f.TutorID != tutor.UserID {
		return nil, notFound("feedback not found")
	}

	f.Body, f.Recommendations, f.Rating = in.Body, in.Recommendations, in.Rating
	if err := s.store.SaveFeedback(ctx, f); err != nil {
		return nil, storeError(ctx, "update feedback", "feedback", err)
	}
	s.emit(events.FeedbackUpdated, map[string]any{"feedback_id": f.ID, "direction": "tutor"})
	return f, nil
}

func (s *FeedbackService) UpdateStudentFeedback(ctx context.Context, student Principal, id uuid.UUID, in FeedbackInput) (*models.StudentFeedback, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := in.check(); err != nil {
		return nil, err
	}
	f, err := s.store.FindStudentFeedback(ctx, id)
	if err != nil {
		return nil, storeError(ctx, "load feedback", "feedback", err)
	}
	if f.StudentID != student.UserID {
		return nil, notFound("feedback not found")
	}

	f.Body, f.Recommendations, f.Rating = in.Body, in.Recommendations, in.Rating
	if err := s.store.SaveStudentFeedback(ctx, f); err != nil {
		return nil, storeError(ctx, "update feedback", "feedback", err)
	}
	s.emit(events.FeedbackUpdated, map[string]any{"feedback_id": f.ID, "direction": "student"})
	return f, nil
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, tutor Principal, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	f, err := s.store.FindFeedback(ctx, id)
	if err != nil {
		return storeError(ctx, "load feedback", "feedback", err)
	}
	if f.TutorID != tutor.UserID {
		return notFound("feedback not found")
	}
	return storeError(ctx, "delete feedback", "feedback", s.store.DeleteFeedback(ctx, id))
}

func (s *FeedbackService) DeleteStudentFeedback(ctx context.Context, student Principal, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	f, err := s.store.FindStudentFeedback(ctx, id)
	if err != nil {
		return storeError(ctx, "load feedback", "feedback", err)
	}
	if f.StudentID != student.UserID {
		return notFound("feedback not found")
	}
	return storeError(ctx, "delete feedback", "feedback", s.store.DeleteStudentFeedback(ctx, id))
}

// ListFeedbackForAttempt returns both directions, oldest first. Students only
// see feedback on their own attempts.
func (s *FeedbackService) ListFeedbackForAttempt(ctx context.Context, p Principal, attemptID uuid.UUID) (*AttemptFeedback, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.store.FindAttempt(ctx, attemptID)
	if err != nil {
		return nil, storeError(ctx, "load attempt", "attempt", err)
	}
	if !p.IsStaff() && a.StudentID != p.UserID {
		return nil, notFound("attempt not found")
	}

	tutorSide, err := s.store.ListFeedbackByAttempt(ctx, a.ID)
	if err != nil {
		return nil, storeError(ctx, "list feedback", "feedback", err)
	}
	studentSide, err := s.store.ListStudentFeedbackByAttempt(ctx, a.ID)
	if err != nil {
		return nil, storeError(ctx, "list feedback", "feedback", err)
	}
	if tutorSide == nil {
		tutorSide = []models.Feedback{}
	}
	if studentSide == nil {
		studentSide = []models.StudentFeedback{}
	}
	return &AttemptFeedback{TutorFeedback: tutorSide, StudentFeedback: studentSide}, nil
}
