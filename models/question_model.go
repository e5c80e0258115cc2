package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID        uint      `gorm:"not null;index" json:"category_id"`
	DifficultyLevelID uint      `gorm:"not null;index" json:"difficulty_level_id"`
	QuestionText      string    `gorm:"type:text;not null" json:"question_text"`
	Explanation       *string   `gorm:"type:text" json:"explanation"`
	ImageURL          *string   `gorm:"size:500" json:"image_url"`
	AudioURL          *string   `gorm:"size:500" json:"audio_url"`
	IsActive          bool      `gorm:"not null" json:"is_active"`
	AuthorID          uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`

	Options         []Option         `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	Category        *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	DifficultyLevel *DifficultyLevel `gorm:"foreignKey:DifficultyLevelID" json:"difficulty_level,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// CorrectOption returns the option flagged correct, or nil when none is.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

func (q *Question) FindOption(id uuid.UUID) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

type Option struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_option_question_order" json:"question_id"`
	OptionText string    `gorm:"type:text;not null" json:"option_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	OrderIndex int       `gorm:"not null;uniqueIndex:idx_option_question_order" json:"order_index"`
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
