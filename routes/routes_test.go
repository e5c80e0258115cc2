package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anjiri1684/quiz_platform/database"
	"github.com/anjiri1684/quiz_platform/database/dbtest"
	"github.com/anjiri1684/quiz_platform/handlers"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/anjiri1684/quiz_platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type fakeRenderer struct {
	html string
}

func (r *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	r.html = html
	return []byte("%PDF-1.4 test"), nil
}

type testServer struct {
	app      *fiber.App
	store    *database.Store
	accounts *services.AccountService
	renderer *fakeRenderer

	category *models.Category
	level    *models.DifficultyLevel
	tutor    *models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := dbtest.New(t)
	opts := services.Options{}
	accounts := services.NewAccountService(store, testSecret, services.DefaultTokenTTL, opts)
	attempts := services.NewAttemptService(store, opts)
	analytics := services.NewAnalyticsService(store, opts)
	renderer := &fakeRenderer{}

	h := &handlers.Handler{
		Accounts:   accounts,
		Questions:  services.NewQuestionService(store, opts),
		Attempts:   attempts,
		Feedback:   services.NewFeedbackService(store, opts),
		Analytics:  analytics,
		Dashboards: services.NewDashboardService(analytics, attempts, store, analytics, opts),
		Reports:    renderer,
	}

	s := &testServer{
		app:      New(h, Config{JWTSecret: testSecret, Quiet: true}),
		store:    store,
		accounts: accounts,
		renderer: renderer,
	}
	ctx := context.Background()
	s.category = &models.Category{Name: "Grammar", IsActive: true}
	if err := store.CreateCategory(ctx, s.category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	s.level = &models.DifficultyLevel{Name: "Beginner", IsActive: true}
	if err := store.CreateDifficultyLevel(ctx, s.level); err != nil {
		t.Fatalf("create level: %v", err)
	}
	s.tutor = s.user(t, models.RoleTutor)
	return s
}

func (s *testServer) user(t *testing.T, role string) *models.User {
	t.Helper()
	u := &models.User{
		FullName: role + " user",
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := s.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (s *testServer) token(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := s.accounts.IssueToken(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (s *testServer) question(t *testing.T, text string) *models.Question {
	t.Helper()
	q := &models.Question{
		CategoryID:        s.category.ID,
		DifficultyLevelID: s.level.ID,
		QuestionText:      text,
		IsActive:          true,
		AuthorID:          s.tutor.ID,
		Options: []models.Option{
			{OptionText: "right", IsCorrect: true, OrderIndex: 0},
			{OptionText: "wrong", OrderIndex: 1},
		},
	}
	if err := s.store.CreateQuestion(context.Background(), q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	resp, raw := s.raw(t, method, path, token, body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
	}
	return resp.StatusCode, env
}

func (s *testServer) raw(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/health", "", nil)
	if status != fiber.StatusOK || env.Status != "ok" {
		t.Fatalf("health = %d %+v", status, env)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"full_name": "Ada", "email": "Ada@Example.com", "password": "secret1",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register status = %d", status)
	}

	status, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"full_name": "Ada", "email": "ada@example.com", "password": "secret1",
	})
	if status != fiber.StatusBadRequest || env.Code != "validation" {
		t.Fatalf("duplicate register = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	if status != fiber.StatusUnauthorized || env.Message != "invalid email or password" {
		t.Fatalf("bad login = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "secret1",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login = %d %+v", status, env)
	}
	var session struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.User.Role != models.RoleStudent {
		t.Fatalf("role = %q, want student", session.User.Role)
	}

	status, env = s.do(t, http.MethodGet, "/api/v1/auth/me", session.Token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("me = %d %+v", status, env)
	}
	var me models.User
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "ada@example.com" {
		t.Fatalf("email = %q", me.Email)
	}
}

func TestAuthFailures(t *testing.T) {
	s := newTestServer(t)
	student := s.token(t, s.user(t, models.RoleStudent))

	status, env := s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	if status != fiber.StatusBadRequest || env.Status != "error" {
		t.Fatalf("missing token = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodGet, "/api/v1/auth/me", "not.a.token", nil)
	if status != fiber.StatusUnauthorized || env.Code != "unauthorized" {
		t.Fatalf("bad token = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodGet, "/api/v1/questions", student, nil)
	if status != fiber.StatusForbidden || env.Code != "forbidden" {
		t.Fatalf("student listing questions = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodGet, "/api/v1/admin/users", s.token(t, s.tutor), nil)
	if status != fiber.StatusForbidden {
		t.Fatalf("tutor listing users = %d %+v", status, env)
	}
}

func TestPublicReferenceData(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("categories = %d %+v", status, env)
	}
	var cats []models.Category
	if err := json.Unmarshal(env.Data, &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Grammar" {
		t.Fatalf("categories = %+v", cats)
	}
}

type startedAttempt struct {
	Attempt   models.Attempt `json:"attempt"`
	Questions []struct {
		ID      uuid.UUID `json:"id"`
		Options []struct {
			ID         uuid.UUID `json:"id"`
			OptionText string    `json:"option_text"`
			IsCorrect  *bool     `json:"is_correct"`
		} `json:"options"`
	} `json:"questions"`
}

func TestAttemptLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.question(t, "q1")
	s.question(t, "q2")
	studentUser := s.user(t, models.RoleStudent)
	student := s.token(t, studentUser)

	status, env := s.do(t, http.MethodPost, "/api/v1/attempts", student, map[string]any{
		"category_id": s.category.ID, "difficulty_level_id": s.level.ID, "question_count": 5,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("start = %d %+v", status, env)
	}
	var started startedAttempt
	if err := json.Unmarshal(env.Data, &started); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	if len(started.Questions) != 2 || started.Attempt.TotalQuestions != 2 {
		t.Fatalf("served %d questions, total %d", len(started.Questions), started.Attempt.TotalQuestions)
	}

	var answers []map[string]uuid.UUID
	for _, q := range started.Questions {
		for _, o := range q.Options {
			if o.IsCorrect != nil {
				t.Fatalf("served option exposes is_correct")
			}
			if o.OptionText == "right" {
				answers = append(answers, map[string]uuid.UUID{"question_id": q.ID, "selected_option_id": o.ID})
			}
		}
	}
	attemptPath := "/api/v1/attempts/" + started.Attempt.ID.String()

	status, env = s.do(t, http.MethodPost, attemptPath+"/answers", student, map[string]any{"answers": answers[:1]})
	if status != fiber.StatusOK {
		t.Fatalf("record = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodPost, attemptPath+"/answers", student, map[string]any{"answers": answers[:1]})
	if status != fiber.StatusConflict || env.Code != "duplicate_answer" {
		t.Fatalf("duplicate record = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodPost, attemptPath+"/submit", student, map[string]any{
		"answers": answers[1:], "time_taken": 42,
	})
	if status != fiber.StatusOK {
		t.Fatalf("submit = %d %+v", status, env)
	}
	var result services.SubmitResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if result.Score != 100 || result.CorrectAnswers != 2 || result.Attempt.TimeTaken != 42 {
		t.Fatalf("result = %+v", result)
	}

	status, env = s.do(t, http.MethodPost, attemptPath+"/submit", student, nil)
	if status != fiber.StatusConflict || env.Code != "already_submitted" {
		t.Fatalf("second submit = %d %+v", status, env)
	}

	other := s.token(t, s.user(t, models.RoleStudent))
	status, env = s.do(t, http.MethodGet, attemptPath, other, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("other student read = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodGet, "/api/v1/students/me/progress", student, nil)
	if status != fiber.StatusOK {
		t.Fatalf("progress = %d %+v", status, env)
	}
	var progress services.StudentProgress
	if err := json.Unmarshal(env.Data, &progress); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if progress.TotalAttempts != 1 || progress.BestScore != 100 {
		t.Fatalf("progress = %+v", progress)
	}

	tutor := s.token(t, s.tutor)
	status, env = s.do(t, http.MethodPost, attemptPath+"/feedback", tutor, map[string]any{
		"body": "Well done", "rating": 5,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("feedback = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodGet, "/api/v1/students/"+studentUser.ID.String()+"/dashboard", tutor, nil)
	if status != fiber.StatusOK {
		t.Fatalf("dashboard = %d %+v", status, env)
	}
	var dash services.Dashboard
	if err := json.Unmarshal(env.Data, &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if len(dash.Errors) != 0 {
		t.Fatalf("dashboard errors = %v", dash.Errors)
	}
	for _, name := range []string{"progress", "recent_attempts", "feedback"} {
		if _, ok := dash.Sections[name]; !ok {
			t.Fatalf("dashboard missing section %q", name)
		}
	}
}

func TestStartWithoutQuestions(t *testing.T) {
	s := newTestServer(t)
	student := s.token(t, s.user(t, models.RoleStudent))

	status, env := s.do(t, http.MethodPost, "/api/v1/attempts", student, map[string]any{
		"category_id": s.category.ID, "difficulty_level_id": s.level.ID, "question_count": 5,
	})
	if status != fiber.StatusNotFound || env.Code != "not_found" || env.Status != "error" {
		t.Fatalf("start = %d %+v", status, env)
	}
	if env.Message == "" {
		t.Fatal("error response has no message")
	}

	status, env = s.do(t, http.MethodPost, "/api/v1/attempts", s.token(t, s.tutor), map[string]any{
		"category_id": s.category.ID, "difficulty_level_id": s.level.ID, "question_count": 5,
	})
	if status != fiber.StatusForbidden {
		t.Fatalf("tutor start = %d %+v", status, env)
	}
}

func TestAttemptReport(t *testing.T) {
	s := newTestServer(t)
	q := s.question(t, "What is the past tense of go?")
	studentUser := s.user(t, models.RoleStudent)
	student := s.token(t, studentUser)

	_, env := s.do(t, http.MethodPost, "/api/v1/attempts", student, map[string]any{
		"category_id": s.category.ID, "difficulty_level_id": s.level.ID, "question_count": 1,
	})
	var started startedAttempt
	if err := json.Unmarshal(env.Data, &started); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	attemptPath := "/api/v1/attempts/" + started.Attempt.ID.String()

	status, env := s.do(t, http.MethodGet, attemptPath+"/report", student, nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("report before submit = %d %+v", status, env)
	}

	status, env = s.do(t, http.MethodPost, attemptPath+"/submit", student, map[string]any{
		"answers": []map[string]uuid.UUID{{"question_id": q.ID, "selected_option_id": q.CorrectOption().ID}},
	})
	if status != fiber.StatusOK {
		t.Fatalf("submit = %d %+v", status, env)
	}

	resp, body := s.raw(t, http.MethodGet, attemptPath+"/report?format=html", student, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("html report = %d %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/html") {
		t.Fatalf("content type = %q", resp.Header.Get(fiber.HeaderContentType))
	}
	if !strings.Contains(string(body), "What is the past tense of go?") {
		t.Fatalf("report does not list the question")
	}

	resp, body = s.raw(t, http.MethodGet, attemptPath+"/report", student, nil)
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get(fiber.HeaderContentType) != "application/pdf" {
		t.Fatalf("pdf report = %d %q", resp.StatusCode, resp.Header.Get(fiber.HeaderContentType))
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("pdf body = %q", body)
	}
	if !strings.Contains(s.renderer.html, studentUser.FullName) {
		t.Fatalf("rendered html does not name the student")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	student := s.token(t, s.user(t, models.RoleStudent))
	for range 5 {
		s.raw(t, http.MethodGet, "/health", "", nil)
		s.raw(t, http.MethodPost, "/api/v1/attempts", student, map[string]any{"question_count": 1})
		s.raw(t, http.MethodGet, "/api/v1/auth/me", student, nil)
		s.raw(t, http.MethodDelete, "/api/v1/admin/attempts/"+uuid.NewString(), student, nil)
	}

	resp, body := s.raw(t, http.MethodGet, "/metrics", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("metrics = %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "quiz_http_request_duration_seconds") {
		t.Fatalf("metrics output lacks request histogram")
	}
}
