package model

import (
	"time"
)

// Option is one answer choice. Its letter (A, B, ...) is its zero-based position
// among the question's options sorted by ascending ID; no label is stored.
type Option struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	OptionText string    `json:"option_text" gorm:"type:text;not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Option) TableName() string {
	return "question_options"
}
