package repository

import (
	"context"

	"github.com/lshigami/kwizify/internal/model"
	"gorm.io/gorm"
)

type QuizAttemptRepository interface {
	WithTx(tx *gorm.DB) QuizAttemptRepository
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	UpdateScore(ctx context.Context, attemptID uint, score float64) error
	FindByID(ctx context.Context, id uint) (*model.QuizAttempt, error)
	// FindAllByUser lists the user's attempts, most recently started first.
	FindAllByUser(ctx context.Context, userID uint) ([]model.QuizAttempt, error)
}

type quizAttemptRepository struct {
	db *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: db}
}

func (r *quizAttemptRepository) WithTx(tx *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: tx}
}

func (r *quizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.db.WithContext(ctx).Omit("Answers").Create(attempt).Error
}

func (r *quizAttemptRepository) UpdateScore(ctx context.Context, attemptID uint, score float64) error {
	return r.db.WithContext(ctx).Model(&model.QuizAttempt{}).Where("id = ?", attemptID).Update("score", score).Error
}

func (r *quizAttemptRepository) FindByID(ctx context.Context, id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *quizAttemptRepository) FindAllByUser(ctx context.Context, userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}
