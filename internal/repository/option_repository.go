package repository

import (
	"context"

	"github.com/lshigami/kwizify/internal/model"
	"gorm.io/gorm"
)

type OptionRepository interface {
	WithTx(tx *gorm.DB) OptionRepository
	Create(ctx context.Context, option *model.Option) error
	// FindByQuestionID returns options in ascending ID order. Letter A is index 0 of this slice.
	FindByQuestionID(ctx context.Context, questionID uint) ([]model.Option, error)
	DeleteByQuizID(ctx context.Context, quizID uint) error
}

type optionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

func (r *optionRepository) WithTx(tx *gorm.DB) OptionRepository {
	return &optionRepository{db: tx}
}

func (r *optionRepository) Create(ctx context.Context, option *model.Option) error {
	// Select forces IsCorrect=false to be written instead of falling back to the column default.
	return r.db.WithContext(ctx).Select("QuestionID", "OptionText", "IsCorrect", "CreatedAt", "UpdatedAt").Create(option).Error
}

func (r *optionRepository) FindByQuestionID(ctx context.Context, questionID uint) ([]model.Option, error) {
	var options []model.Option
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).Order("id ASC").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *optionRepository) DeleteByQuizID(ctx context.Context, quizID uint) error {
	return r.db.WithContext(ctx).
		Where("question_id IN (?)", r.db.Model(&model.Question{}).Select("id").Where("quiz_id = ?", quizID)).
		Delete(&model.Option{}).Error
}
