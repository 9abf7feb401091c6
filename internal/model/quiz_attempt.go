package model

import (
	"time"
)

type QuizAttempt struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	QuizID           uint       `json:"quiz_id" gorm:"not null;index"`
	UserID           uint       `json:"user_id" gorm:"not null;index"`
	StartedAt        time.Time  `json:"started_at" gorm:"not null;index"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TimeSpentSeconds *float64   `json:"time_spent_seconds,omitempty"`
	Score            *float64   `json:"score,omitempty"` // percentage 0-100, nil until graded
	Answers          []Answer   `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
