package services

import (
	"context"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

type AnalyticsStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListQuestionSummaries(ctx context.Context, authorID *uuid.UUID) ([]models.Question, error)
	ListCompletedAttempts(ctx context.Context, studentID *uuid.UUID) ([]models.Attempt, error)
	ListAnswersForQuestions(ctx context.Context, questionIDs []uuid.UUID) ([]models.Answer, error)
}

// AnalyticsService fetches raw rows and reduces them in process on every
// call. Nothing is cached.
type AnalyticsService struct {
	base
	store AnalyticsStore
}

func NewAnalyticsService(store AnalyticsStore, opts Options) *AnalyticsService {
	return &AnalyticsService{base: newBase(opts), store: store}
}

func (s *AnalyticsService) StudentProgress(ctx context.Context, p Principal, studentID uuid.UUID) (StudentProgress, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !p.IsStaff() && p.UserID != studentID {
		return StudentProgress{}, forbidden("students can only view their own progress")
	}
	attempts, err := s.store.ListCompletedAttempts(ctx, &studentID)
	if err != nil {
		return StudentProgress{}, storeError(ctx, "load attempts", "attempts", err)
	}
	return SummarizeStudentProgress(attempts), nil
}

func (s *AnalyticsService) SystemAnalytics(ctx context.Context, p Principal) (SystemAnalytics, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !p.IsStaff() {
		return SystemAnalytics{}, forbidden("only tutors can view system analytics")
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return SystemAnalytics{}, storeError(ctx, "load users", "users", err)
	}
	questions, err := s.store.ListQuestionSummaries(ctx, nil)
	if err != nil {
		return SystemAnalytics{}, storeError(ctx, "load questions", "questions", err)
	}
	attempts, err := s.store.ListCompletedAttempts(ctx, nil)
	if err != nil {
		return SystemAnalytics{}, storeError(ctx, "load attempts", "attempts", err)
	}
	return SummarizeSystem(users, questions, attempts, s.now(), s.loc), nil
}

func (s *AnalyticsService) Leaderboard(ctx context.Context, p Principal) ([]LeaderboardEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !p.IsStaff() {
		return nil, forbidden("only tutors can view the leaderboard")
	}
	return s.leaderboard(ctx)
}

func (s *AnalyticsService) leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	attempts, err := s.store.ListCompletedAttempts(ctx, nil)
	if err != nil {
		return nil, storeError(ctx, "load attempts", "attempts", err)
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeError(ctx, "load users", "users", err)
	}
	return RankStudents(attempts, users, leaderboardSize), nil
}

// TutorAnalytics covers the tutor's own questions; its leaderboard spans
// every student regardless of whose questions they answered.
func (s *AnalyticsService) TutorAnalytics(ctx context.Context, p Principal, tutorID uuid.UUID) (TutorAnalytics, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !p.IsStaff() {
		return TutorAnalytics{}, forbidden("only tutors can view tutor analytics")
	}
	if p.Role != models.RoleSuperTutor && p.UserID != tutorID {
		return TutorAnalytics{}, forbidden("tutors can only view their own analytics")
	}

	questions, err := s.store.ListQuestionSummaries(ctx, &tutorID)
	if err != nil {
		return TutorAnalytics{}, storeError(ctx, "load questions", "questions", err)
	}
	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	answers, err := s.store.ListAnswersForQuestions(ctx, ids)
	if err != nil {
		return TutorAnalytics{}, storeError(ctx, "load answers", "answers", err)
	}

	t := SummarizeTutor(questions, answers)
	board, err := s.leaderboard(ctx)
	if err != nil {
		return TutorAnalytics{}, err
	}
	t.Leaderboard = board
	return t, nil
}
