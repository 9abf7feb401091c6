package service

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/grading"
	"github.com/lshigami/kwizify/internal/model"
	"gorm.io/gorm"
)

// unknownLabel stands in for a quiz title or question text whose row no longer exists.
const unknownLabel = "Unknown"

// queryContext bounds a store round trip by the configured query timeout.
func queryContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func toChoices(options []model.Option) []grading.Choice {
	out := make([]grading.Choice, len(options))
	for i, o := range options {
		out[i] = grading.Choice{ID: o.ID, IsCorrect: o.IsCorrect}
	}
	return out
}

func toOptionResponses(options []model.Option) []dto.OptionResponse {
	out := make([]dto.OptionResponse, len(options))
	for i, o := range options {
		out[i] = dto.OptionResponse{ID: o.ID, Text: o.OptionText, IsCorrect: o.IsCorrect}
	}
	return out
}
