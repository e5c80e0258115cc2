package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anjiri1684/quiz_platform/database"
	"github.com/anjiri1684/quiz_platform/database/dbtest"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/google/uuid"
)

type fixture struct {
	store *database.Store
	now   time.Time

	student Principal
	tutor   Principal
	super   Principal

	category *models.Category
	level    *models.DifficultyLevel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: dbtest.New(t),
		now:   time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
	f.student = f.user(t, models.RoleStudent, "student")
	f.tutor = f.user(t, models.RoleTutor, "tutor")
	f.super = f.user(t, models.RoleSuperTutor, "super")
	f.category = f.addCategory(t, "Grammar")
	f.level = f.addLevel(t, "Beginner")
	return f
}

func (f *fixture) opts() Options {
	return Options{Clock: func() time.Time { return f.now }}
}

func (f *fixture) user(t *testing.T, role, name string) Principal {
	t.Helper()
	u := &models.User{
		FullName: name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := f.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return Principal{UserID: u.ID, Role: role}
}

func (f *fixture) addCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, IsActive: true}
	if err := f.store.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func (f *fixture) addLevel(t *testing.T, name string) *models.DifficultyLevel {
	t.Helper()
	d := &models.DifficultyLevel{Name: name, IsActive: true}
	if err := f.store.CreateDifficultyLevel(context.Background(), d); err != nil {
		t.Fatalf("create difficulty level: %v", err)
	}
	return d
}

// question stores a three-option question whose option at index correct is right.
func (f *fixture) question(t *testing.T, text string, correct int) *models.Question {
	t.Helper()
	return f.questionIn(t, f.category.ID, f.level.ID, text, correct)
}

func (f *fixture) questionIn(t *testing.T, categoryID, levelID uint, text string, correct int) *models.Question {
	t.Helper()
	q := &models.Question{
		CategoryID:        categoryID,
		DifficultyLevelID: levelID,
		QuestionText:      text,
		IsActive:          true,
		AuthorID:          f.tutor.UserID,
	}
	for i := range 3 {
		q.Options = append(q.Options, models.Option{
			OptionText: fmt.Sprintf("%s option %d", text, i),
			IsCorrect:  i == correct,
			OrderIndex: i,
		})
	}
	if err := f.store.CreateQuestion(context.Background(), q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func right(q *models.Question) AnswerInput {
	return AnswerInput{QuestionID: q.ID, SelectedOptionID: q.CorrectOption().ID}
}

func wrong(q *models.Question) AnswerInput {
	for _, o := range q.Options {
		if !o.IsCorrect {
			return AnswerInput{QuestionID: q.ID, SelectedOptionID: o.ID}
		}
	}
	panic("question has no wrong option")
}
