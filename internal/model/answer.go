package model

import (
	"time"
)

// Answer is written once per question when an attempt is submitted.
// A nil SelectedOptionID records a letter that did not map to any option.
type Answer struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	AttemptID        uint      `json:"attempt_id" gorm:"not null;index"`
	QuestionID       uint      `json:"question_id" gorm:"not null;index"`
	SelectedOptionID *uint     `json:"selected_option_id"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Answer) TableName() string {
	return "question_answers"
}
