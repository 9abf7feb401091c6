package repository

import (
	"context"

	"github.com/lshigami/kwizify/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	WithTx(tx *gorm.DB) AnswerRepository
	Create(ctx context.Context, answer *model.Answer) error
	// FindByAttemptID returns answers sorted by question ID, the presentation order of a transcript.
	FindByAttemptID(ctx context.Context, attemptID uint) ([]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) WithTx(tx *gorm.DB) AnswerRepository {
	return &answerRepository{db: tx}
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) error {
	// Select keeps a false IsCorrect and a nil SelectedOptionID explicit in the insert.
	return r.db.WithContext(ctx).Select("AttemptID", "QuestionID", "SelectedOptionID", "IsCorrect", "CreatedAt").Create(answer).Error
}

func (r *answerRepository) FindByAttemptID(ctx context.Context, attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).Order("question_id ASC, id ASC").Find(&answers).Error
	return answers, err
}
