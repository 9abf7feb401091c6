package dto

import "time"

type StartAttemptResponse struct {
	AttemptID uint      `json:"attempt_id"`
	StartedAt time.Time `json:"started_at"`
}

type AttemptResultResponse struct {
	AttemptID        uint    `json:"attempt_id"`
	Score            float64 `json:"score"`
	CorrectAnswers   int     `json:"correct_answers"`
	TotalQuestions   int     `json:"total_questions"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

// AttemptSummaryDTO is one row of a user's attempt history.
type AttemptSummaryDTO struct {
	AttemptID        uint       `json:"attempt_id"`
	QuizID           uint       `json:"quiz_id"`
	QuizTitle        string     `json:"quiz_title"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	TimeSpentSeconds *float64   `json:"time_spent_seconds"`
	Score            *float64   `json:"score"`
}

// AnswerTranscriptDTO is the replay of a single graded answer.
type AnswerTranscriptDTO struct {
	QuestionID           uint             `json:"question_id"`
	QuestionText         string           `json:"question_text"`
	SelectedOptionID     *uint            `json:"selected_option_id"`
	SelectedOptionLetter *string          `json:"selected_option_letter"`
	CorrectOptionLetter  *string          `json:"correct_option_letter"`
	IsCorrect            bool             `json:"is_correct"`
	Options              []OptionResponse `json:"options"`
}

type AttemptTranscriptDTO struct {
	AttemptID        uint                  `json:"attempt_id"`
	QuizID           uint                  `json:"quiz_id"`
	QuizTitle        string                `json:"quiz_title"`
	UserID           uint                  `json:"user_id"`
	StartedAt        time.Time             `json:"started_at"`
	CompletedAt      *time.Time            `json:"completed_at"`
	TimeSpentSeconds *float64              `json:"time_spent_seconds"`
	Score            *float64              `json:"score"`
	Answers          []AnswerTranscriptDTO `json:"answers"`
}
