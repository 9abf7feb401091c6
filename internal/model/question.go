package model

import (
	"time"
)

// Question belongs to a Quiz. Questions of a quiz are always read in ascending ID order.
type Question struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	QuizID       uint      `json:"quiz_id" gorm:"not null;index"`
	QuestionText string    `json:"question_text" gorm:"type:text;not null"`
	Options      []Option  `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
