package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/cache"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/grading"
	"github.com/lshigami/kwizify/internal/model"
	"github.com/lshigami/kwizify/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuizCatalogService interface {
	GetQuiz(ctx context.Context, id uint) (*model.Quiz, error)
	ListQuestions(ctx context.Context, quizID uint) ([]model.Question, error)
	ListOptions(ctx context.Context, questionID uint) ([]model.Option, error)
	GetQuizDetail(ctx context.Context, id uint) (*dto.QuizDetailResponse, error)
	ListUserQuizzes(ctx context.Context, creatorID uint) ([]dto.QuizSummaryResponse, error)
	SaveQuiz(ctx context.Context, req dto.SaveQuizRequest) (uint, error)
	DeleteQuiz(ctx context.Context, quizID, requesterID uint) error
}

type quizCatalogService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
	userRepo     repository.UserRepository
	quizCache    cache.QuizCache
	db           *gorm.DB
	cfg          *config.Config
}

func NewQuizCatalogService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
	userRepo repository.UserRepository,
	quizCache cache.QuizCache,
	db *gorm.DB,
	cfg *config.Config,
) QuizCatalogService {
	return &quizCatalogService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		userRepo:     userRepo,
		quizCache:    quizCache,
		db:           db,
		cfg:          cfg,
	}
}

func (s *quizCatalogService) GetQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	quiz, err := s.quizRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: quiz %d", apperr.ErrNotFound, id)
		}
		log.Error().Err(err).Uint("quizID", id).Msg("GetQuiz: failed to load quiz")
		return nil, fmt.Errorf("failed to load quiz %d: %w", id, err)
	}
	return quiz, nil
}

func (s *quizCatalogService) ListQuestions(ctx context.Context, quizID uint) ([]model.Question, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()
	return s.questionRepo.FindByQuizID(ctx, quizID)
}

func (s *quizCatalogService) ListOptions(ctx context.Context, questionID uint) ([]model.Option, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()
	return s.optionRepo.FindByQuestionID(ctx, questionID)
}

func (s *quizCatalogService) GetQuizDetail(ctx context.Context, id uint) (*dto.QuizDetailResponse, error) {
	if cached, ok := s.quizCache.GetQuizDetail(ctx, id); ok {
		return cached, nil
	}

	qctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	quiz, err := s.quizRepo.FindByIDWithQuestions(qctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: quiz %d", apperr.ErrNotFound, id)
		}
		log.Error().Err(err).Uint("quizID", id).Msg("GetQuizDetail: failed to load quiz")
		return nil, fmt.Errorf("failed to load quiz %d: %w", id, err)
	}

	resp := dto.QuizDetailResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		CreatorID:   quiz.CreatorID,
		CreatedAt:   quiz.CreatedAt,
		Questions:   make([]dto.QuestionResponse, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      toOptionResponses(q.Options),
		})
	}

	s.quizCache.SetQuizDetail(ctx, &resp)
	return &resp, nil
}

func (s *quizCatalogService) ListUserQuizzes(ctx context.Context, creatorID uint) ([]dto.QuizSummaryResponse, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	rows, err := s.quizRepo.FindAllByCreatorWithQuestionCount(ctx, creatorID)
	if err != nil {
		log.Error().Err(err).Uint("userID", creatorID).Msg("ListUserQuizzes: query failed")
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	out := make([]dto.QuizSummaryResponse, 0, len(rows))
	for _, row := range rows {
		var summary dto.QuizSummaryResponse
		if err := copier.Copy(&summary, &row.Quiz); err != nil {
			return nil, fmt.Errorf("error mapping quiz %d: %w", row.ID, err)
		}
		summary.QuestionCount = row.QuestionCount
		out = append(out, summary)
	}
	return out, nil
}

// correctOptionIndex resolves CorrectAnswer to a position in Options. An exact text match
// wins; otherwise a single letter addressing an option is accepted.
func correctOptionIndex(q dto.QuestionCreateDTO) (int, error) {
	matches := 0
	idx := -1
	for i, opt := range q.Options {
		if opt == q.CorrectAnswer {
			matches++
			idx = i
		}
	}
	switch {
	case matches == 1:
		return idx, nil
	case matches > 1:
		return -1, fmt.Errorf("%w: correct answer %q matches %d options", apperr.ErrValidation, q.CorrectAnswer, matches)
	}

	if li := grading.LetterToIndex(q.CorrectAnswer); li >= 0 && li < len(q.Options) {
		return li, nil
	}
	return -1, fmt.Errorf("%w: correct answer %q does not match any option", apperr.ErrValidation, q.CorrectAnswer)
}

func validateQuizQuestions(questions []dto.QuestionCreateDTO) ([]int, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: a quiz needs at least one question", apperr.ErrValidation)
	}
	correct := make([]int, len(questions))
	for i, q := range questions {
		if len(q.Options) < 2 || len(q.Options) > grading.MaxOptions {
			return nil, fmt.Errorf("%w: question %d has %d options, want 2 to %d",
				apperr.ErrValidation, i+1, len(q.Options), grading.MaxOptions)
		}
		idx, err := correctOptionIndex(q)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		correct[i] = idx
	}
	return correct, nil
}

// SaveQuiz persists a quiz, its questions and options in one transaction. Options are
// inserted one at a time so that ascending ID order equals the order they were given in.
func (s *quizCatalogService) SaveQuiz(ctx context.Context, req dto.SaveQuizRequest) (uint, error) {
	correct, err := validateQuizQuestions(req.Questions)
	if err != nil {
		return 0, err
	}

	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	exists, err := s.userRepo.Exists(ctx, req.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to check user %d: %w", req.UserID, err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: user %d", apperr.ErrNotFound, req.UserID)
	}

	quiz := model.Quiz{
		Title:       req.QuizTitle,
		Description: req.QuizDescription,
		CreatorID:   req.UserID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.quizRepo.WithTx(tx).Create(ctx, &quiz); err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}
		questionRepo := s.questionRepo.WithTx(tx)
		optionRepo := s.optionRepo.WithTx(tx)
		for i, qReq := range req.Questions {
			question := model.Question{QuizID: quiz.ID, QuestionText: qReq.Question}
			if err := questionRepo.Create(ctx, &question); err != nil {
				return fmt.Errorf("failed to create question %d: %w", i+1, err)
			}
			for j, text := range qReq.Options {
				option := model.Option{
					QuestionID: question.ID,
					OptionText: text,
					IsCorrect:  j == correct[i],
				}
				if err := optionRepo.Create(ctx, &option); err != nil {
					return fmt.Errorf("failed to create option %d of question %d: %w", j+1, i+1, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("SaveQuiz: transaction failed")
		return 0, fmt.Errorf("%w: %w", apperr.ErrTransaction, err)
	}

	log.Info().Uint("quizID", quiz.ID).Uint("userID", req.UserID).Int("questions", len(req.Questions)).Msg("Quiz saved")
	return quiz.ID, nil
}

// DeleteQuiz removes the quiz with its questions and options. Attempts and answers
// referencing it are kept as history.
func (s *quizCatalogService) DeleteQuiz(ctx context.Context, quizID, requesterID uint) error {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != requesterID {
		log.Warn().Uint("quizID", quizID).Uint("requesterID", requesterID).Msg("DeleteQuiz: requester is not the creator")
		return fmt.Errorf("%w: only the creator may delete quiz %d", apperr.ErrForbidden, quizID)
	}

	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.optionRepo.WithTx(tx).DeleteByQuizID(ctx, quizID); err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
		if err := s.questionRepo.WithTx(tx).DeleteByQuizID(ctx, quizID); err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}
		if err := s.quizRepo.WithTx(tx).Delete(ctx, quizID); err != nil {
			return fmt.Errorf("failed to delete quiz: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("DeleteQuiz: transaction failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", apperr.ErrUnavailable, err)
		}
		return fmt.Errorf("%w: %w", apperr.ErrTransaction, err)
	}

	s.quizCache.InvalidateQuiz(ctx, quizID)
	log.Info().Uint("quizID", quizID).Msg("Quiz deleted")
	return nil
}
