package services

import (
	"context"
	"sync"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

type ProgressReader interface {
	StudentProgress(ctx context.Context, p Principal, studentID uuid.UUID) (StudentProgress, error)
}

type AttemptReader interface {
	ListStudentAttempts(ctx context.Context, p Principal, studentID uuid.UUID, page, limit int) (Page[models.Attempt], error)
}

type FeedbackReader interface {
	ListFeedbackForStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]models.Feedback, error)
}

type SystemReader interface {
	SystemAnalytics(ctx context.Context, p Principal) (SystemAnalytics, error)
	Leaderboard(ctx context.Context, p Principal) ([]LeaderboardEntry, error)
}

const dashboardListSize = 5

// Dashboard holds whatever sections loaded; a failed section is reported
// under Errors instead of failing the whole dashboard.
type Dashboard struct {
	Sections map[string]any    `json:"sections"`
	Errors   map[string]string `json:"errors,omitempty"`
}

type section struct {
	name  string
	fetch func(ctx context.Context) (any, error)
}

type DashboardService struct {
	base
	progress ProgressReader
	attempts AttemptReader
	feedback FeedbackReader
	system   SystemReader
}

func NewDashboardService(progress ProgressReader, attempts AttemptReader, feedback FeedbackReader, system SystemReader, opts Options) *DashboardService {
	return &DashboardService{
		base:     newBase(opts),
		progress: progress,
		attempts: attempts,
		feedback: feedback,
		system:   system,
	}
}

func (s *DashboardService) collect(ctx context.Context, sections []section) *Dashboard {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d := &Dashboard{Sections: map[string]any{}, Errors: map[string]string{}}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, sec := range sections {
		wg.Add(1)
		go func(sec section) {
			defer wg.Done()
			data, err := sec.fetch(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.Errors[sec.name] = storeError(ctx, "load "+sec.name, sec.name, err).Error()
				return
			}
			d.Sections[sec.name] = data
		}(sec)
	}
	wg.Wait()

	if len(d.Errors) == 0 {
		d.Errors = nil
	}
	return d
}

func (s *DashboardService) StudentDashboard(ctx context.Context, p Principal, studentID uuid.UUID) (*Dashboard, error) {
	if !p.IsStaff() && p.UserID != studentID {
		return nil, forbidden("students can only view their own dashboard")
	}
	return s.collect(ctx, []section{
		{name: "progress", fetch: func(ctx context.Context) (any, error) {
			return s.progress.StudentProgress(ctx, p, studentID)
		}},
		{name: "recent_attempts", fetch: func(ctx context.Context) (any, error) {
			page, err := s.attempts.ListStudentAttempts(ctx, p, studentID, 1, dashboardListSize)
			return page.Data, err
		}},
		{name: "feedback", fetch: func(ctx context.Context) (any, error) {
			rows, err := s.feedback.ListFeedbackForStudent(ctx, studentID, dashboardListSize)
			if rows == nil {
				rows = []models.Feedback{}
			}
			return rows, err
		}},
	}), nil
}

func (s *DashboardService) AdminDashboard(ctx context.Context, p Principal) (*Dashboard, error) {
	if p.Role != models.RoleSuperTutor {
		return nil, forbidden("only super tutors can view the admin dashboard")
	}
	return s.collect(ctx, []section{
		{name: "system", fetch: func(ctx context.Context) (any, error) {
			return s.system.SystemAnalytics(ctx, p)
		}},
		{name: "leaderboard", fetch: func(ctx context.Context) (any, error) {
			return s.system.Leaderboard(ctx, p)
		}},
	}), nil
}
