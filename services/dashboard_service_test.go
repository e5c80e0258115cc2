package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

type fakeSources struct {
	progressErr error
	slowSystem  bool
}

func (f fakeSources) StudentProgress(ctx context.Context, p Principal, id uuid.UUID) (StudentProgress, error) {
	if f.progressErr != nil {
		return StudentProgress{}, f.progressErr
	}
	return StudentProgress{TotalAttempts: 4}, nil
}

func (f fakeSources) ListStudentAttempts(ctx context.Context, p Principal, id uuid.UUID, page, limit int) (Page[models.Attempt], error) {
	return newPage([]models.Attempt{{ID: uuid.New()}}, 1, page, limit), nil
}

func (f fakeSources) ListFeedbackForStudent(ctx context.Context, id uuid.UUID, limit int) ([]models.Feedback, error) {
	return nil, nil
}

func (f fakeSources) SystemAnalytics(ctx context.Context, p Principal) (SystemAnalytics, error) {
	if f.slowSystem {
		<-ctx.Done()
		return SystemAnalytics{}, ctx.Err()
	}
	return SystemAnalytics{TotalUsers: 9}, nil
}

func (f fakeSources) Leaderboard(ctx context.Context, p Principal) ([]LeaderboardEntry, error) {
	return []LeaderboardEntry{{FullName: "Ann"}}, nil
}

func newDashboard(src fakeSources, timeout time.Duration) *DashboardService {
	return NewDashboardService(src, src, src, src, Options{Timeout: timeout})
}

func TestStudentDashboardSections(t *testing.T) {
	student := Principal{UserID: uuid.New(), Role: models.RoleStudent}
	d, err := newDashboard(fakeSources{}, 0).StudentDashboard(context.Background(), student, student.UserID)
	if err != nil {
		t.Fatalf("StudentDashboard: %v", err)
	}
	if d.Errors != nil {
		t.Errorf("unexpected errors: %v", d.Errors)
	}
	if p, ok := d.Sections["progress"].(StudentProgress); !ok || p.TotalAttempts != 4 {
		t.Errorf("unexpected progress section: %#v", d.Sections["progress"])
	}
	if a, ok := d.Sections["recent_attempts"].([]models.Attempt); !ok || len(a) != 1 {
		t.Errorf("unexpected attempts section: %#v", d.Sections["recent_attempts"])
	}
	if fb, ok := d.Sections["feedback"].([]models.Feedback); !ok || fb == nil {
		t.Errorf("expected an empty feedback list, got %#v", d.Sections["feedback"])
	}
}

func TestDashboardDegradesPerSection(t *testing.T) {
	student := Principal{UserID: uuid.New(), Role: models.RoleStudent}
	src := fakeSources{progressErr: errors.New("connection reset")}
	d, err := newDashboard(src, 0).StudentDashboard(context.Background(), student, student.UserID)
	if err != nil {
		t.Fatalf("StudentDashboard: %v", err)
	}
	if _, ok := d.Sections["progress"]; ok {
		t.Errorf("failed section must not be present")
	}
	if d.Errors["progress"] != "load progress failed" {
		t.Errorf("unexpected section error: %v", d.Errors)
	}
	if len(d.Sections) != 2 {
		t.Errorf("healthy sections missing: %v", d.Sections)
	}
}

func TestAdminDashboardTimeoutIsolated(t *testing.T) {
	super := Principal{UserID: uuid.New(), Role: models.RoleSuperTutor}
	d, err := newDashboard(fakeSources{slowSystem: true}, 20*time.Millisecond).AdminDashboard(context.Background(), super)
	if err != nil {
		t.Fatalf("AdminDashboard: %v", err)
	}
	if d.Errors["system"] != "load system timed out" {
		t.Errorf("expected a timeout on the system section, got %v", d.Errors)
	}
	if _, ok := d.Sections["leaderboard"]; !ok {
		t.Errorf("leaderboard should load despite the slow system section")
	}
}

func TestDashboardPermissions(t *testing.T) {
	svc := newDashboard(fakeSources{}, 0)
	student := Principal{UserID: uuid.New(), Role: models.RoleStudent}
	tutor := Principal{UserID: uuid.New(), Role: models.RoleTutor}

	if _, err := svc.StudentDashboard(context.Background(), student, uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign dashboard: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.AdminDashboard(context.Background(), tutor); !errors.Is(err, ErrForbidden) {
		t.Errorf("tutor admin dashboard: expected ErrForbidden, got %v", err)
	}
}
