package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is written by a tutor about a graded attempt.
type Feedback struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID       uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	TutorID         uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	Body            string    `gorm:"type:text;not null" json:"body"`
	Recommendations *string   `gorm:"type:text" json:"recommendations"`
	Rating          *int      `json:"rating"`

	Tutor *User `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// StudentFeedback runs the other way: a student about an attempt and its tutor.
type StudentFeedback struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID       uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	TutorID         uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	Body            string    `gorm:"type:text;not null" json:"body"`
	Recommendations *string   `gorm:"type:text" json:"recommendations"`
	Rating          *int      `json:"rating"`

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *StudentFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
