package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttemptInProgress = "in_progress"
	AttemptGraded     = "graded"
)

type Attempt struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	CategoryID        uint       `gorm:"not null;index" json:"category_id"`
	DifficultyLevelID uint       `gorm:"not null;index" json:"difficulty_level_id"`
	TotalQuestions    int        `gorm:"not null" json:"total_questions"`
	CorrectAnswers    int        `gorm:"not null;default:0" json:"correct_answers"`
	Score             int        `gorm:"not null;default:0" json:"score"`
	TimeTaken         int        `gorm:"not null;default:0" json:"time_taken"`
	StartedAt         time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	IsCompleted       bool       `gorm:"not null;default:false;index" json:"is_completed"`
	Status            string     `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	Version           int        `gorm:"not null;default:1" json:"version"`

	Student         *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Category        *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	DifficultyLevel *DifficultyLevel `gorm:"foreignKey:DifficultyLevelID" json:"difficulty_level,omitempty"`
	Answers         []Answer         `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Grade holds the fields written to an attempt when it is submitted.
type Grade struct {
	CorrectAnswers int
	Score          int
	TimeTaken      int
	CompletedAt    time.Time
}

type Answer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_attempt_question" json:"attempt_id"`
	QuestionID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_attempt_question" json:"question_id"`
	SelectedOptionID uuid.UUID `gorm:"type:uuid;not null" json:"selected_option_id"`
	IsCorrect        bool      `gorm:"not null" json:"is_correct"`
	AnsweredAt       time.Time `gorm:"not null" json:"answered_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
