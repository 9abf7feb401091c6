package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/grading"
	"github.com/lshigami/kwizify/internal/model"
	"github.com/lshigami/kwizify/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AttemptService interface {
	StartAttempt(ctx context.Context, quizID, userID uint) (*dto.StartAttemptResponse, error)
	SubmitAttempt(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error)
	ListUserAttempts(ctx context.Context, userID uint) ([]dto.AttemptSummaryDTO, error)
	GetAttemptDetail(ctx context.Context, attemptID uint) (*dto.AttemptTranscriptDTO, error)
}

type attemptService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
	attemptRepo  repository.QuizAttemptRepository
	answerRepo   repository.AnswerRepository
	userRepo     repository.UserRepository
	db           *gorm.DB
	cfg          *config.Config
	now          func() time.Time
}

func NewAttemptService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
	attemptRepo repository.QuizAttemptRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
	cfg *config.Config,
) AttemptService {
	return &attemptService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		db:           db,
		cfg:          cfg,
		now:          time.Now,
	}
}

// StartAttempt records when a user opened a quiz. Grading never reads this row;
// SubmitAttempt always writes its own.
func (s *attemptService) StartAttempt(ctx context.Context, quizID, userID uint) (*dto.StartAttemptResponse, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	if _, err := s.quizRepo.FindByID(ctx, quizID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: quiz %d", apperr.ErrNotFound, quizID)
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user %d: %w", userID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, userID)
	}

	attempt := model.QuizAttempt{
		QuizID:    quizID,
		UserID:    userID,
		StartedAt: s.now(),
	}
	if err := s.attemptRepo.Create(ctx, &attempt); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Uint("userID", userID).Msg("StartAttempt: failed to create attempt")
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("quizID", quizID).Uint("userID", userID).Msg("Attempt started")
	return &dto.StartAttemptResponse{AttemptID: attempt.ID, StartedAt: attempt.StartedAt}, nil
}

// SubmitAttempt grades one letter per question and stores the attempt with all of its
// answers atomically. Letters that address no option are stored as unanswered and wrong.
func (s *attemptService) SubmitAttempt(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	var result dto.AttemptResultResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.quizRepo.WithTx(tx).FindByID(ctx, req.QuizID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: quiz %d", apperr.ErrNotFound, req.QuizID)
			}
			return fmt.Errorf("failed to load quiz: %w", err)
		}

		questions, err := s.questionRepo.WithTx(tx).FindByQuizID(ctx, req.QuizID)
		if err != nil {
			return fmt.Errorf("failed to load questions: %w", err)
		}
		if len(questions) != len(req.SelectedOptions) {
			return fmt.Errorf("%w: quiz %d has %d questions but %d answers were submitted",
				apperr.ErrValidation, req.QuizID, len(questions), len(req.SelectedOptions))
		}

		now := s.now()
		timeSpent := req.TimeSpentSeconds
		attempt := model.QuizAttempt{
			QuizID:           req.QuizID,
			UserID:           req.UserID,
			StartedAt:        now,
			CompletedAt:      &now,
			TimeSpentSeconds: &timeSpent,
		}
		attemptRepo := s.attemptRepo.WithTx(tx)
		if err := attemptRepo.Create(ctx, &attempt); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}

		optionRepo := s.optionRepo.WithTx(tx)
		answerRepo := s.answerRepo.WithTx(tx)
		correct := 0
		for i, question := range questions {
			options, err := optionRepo.FindByQuestionID(ctx, question.ID)
			if err != nil {
				return fmt.Errorf("failed to load options for question %d: %w", question.ID, err)
			}
			sel := grading.Grade(toChoices(options), req.SelectedOptions[i])
			if sel.IsCorrect {
				correct++
			}
			answer := model.Answer{
				AttemptID:        attempt.ID,
				QuestionID:       question.ID,
				SelectedOptionID: sel.OptionID,
				IsCorrect:        sel.IsCorrect,
			}
			if err := answerRepo.Create(ctx, &answer); err != nil {
				return fmt.Errorf("failed to store answer for question %d: %w", question.ID, err)
			}
		}

		score := grading.Score(correct, len(questions))
		if err := attemptRepo.UpdateScore(ctx, attempt.ID, score); err != nil {
			return fmt.Errorf("failed to store score: %w", err)
		}

		result = dto.AttemptResultResponse{
			AttemptID:        attempt.ID,
			Score:            score,
			CorrectAnswers:   correct,
			TotalQuestions:   len(questions),
			TimeSpentSeconds: timeSpent,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
			log.Warn().Err(err).Uint("quizID", req.QuizID).Uint("userID", req.UserID).Msg("SubmitAttempt: rejected")
			return nil, err
		}
		log.Error().Err(err).Uint("quizID", req.QuizID).Uint("userID", req.UserID).Msg("SubmitAttempt: transaction rolled back")
		return nil, fmt.Errorf("%w: %w", apperr.ErrTransaction, err)
	}

	log.Info().
		Uint("attemptID", result.AttemptID).
		Uint("quizID", req.QuizID).
		Uint("userID", req.UserID).
		Int("correct", result.CorrectAnswers).
		Int("total", result.TotalQuestions).
		Float64("score", result.Score).
		Msg("Attempt submitted")
	return &result, nil
}

// quizTitle resolves a title, caching lookups for the duration of one call.
func (s *attemptService) quizTitle(ctx context.Context, titles map[uint]string, quizID uint) (string, error) {
	if t, ok := titles[quizID]; ok {
		return t, nil
	}
	quiz, err := s.quizRepo.FindByID(ctx, quizID)
	switch {
	case err == nil:
		titles[quizID] = quiz.Title
	case isNotFound(err):
		titles[quizID] = unknownLabel
	default:
		return "", fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	return titles[quizID], nil
}

func (s *attemptService) ListUserAttempts(ctx context.Context, userID uint) ([]dto.AttemptSummaryDTO, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	attempts, err := s.attemptRepo.FindAllByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("ListUserAttempts: query failed")
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	titles := make(map[uint]string)
	out := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for _, a := range attempts {
		title, err := s.quizTitle(ctx, titles, a.QuizID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.AttemptSummaryDTO{
			AttemptID:        a.ID,
			QuizID:           a.QuizID,
			QuizTitle:        title,
			StartedAt:        a.StartedAt,
			CompletedAt:      a.CompletedAt,
			TimeSpentSeconds: a.TimeSpentSeconds,
			Score:            a.Score,
		})
	}
	return out, nil
}

// GetAttemptDetail rebuilds the transcript of an attempt, turning stored option IDs back
// into letters. Deleted quizzes and questions render as "Unknown".
func (s *attemptService) GetAttemptDetail(ctx context.Context, attemptID uint) (*dto.AttemptTranscriptDTO, error) {
	ctx, cancel := queryContext(ctx, s.cfg.Database.QueryTimeout)
	defer cancel()

	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: attempt %d", apperr.ErrNotFound, attemptID)
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("GetAttemptDetail: failed to load attempt")
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}

	title, err := s.quizTitle(ctx, map[uint]string{}, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.FindByAttemptID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for attempt %d: %w", attemptID, err)
	}
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].QuestionID < answers[j].QuestionID
	})

	resp := dto.AttemptTranscriptDTO{
		AttemptID:        attempt.ID,
		QuizID:           attempt.QuizID,
		QuizTitle:        title,
		UserID:           attempt.UserID,
		StartedAt:        attempt.StartedAt,
		CompletedAt:      attempt.CompletedAt,
		TimeSpentSeconds: attempt.TimeSpentSeconds,
		Score:            attempt.Score,
		Answers:          make([]dto.AnswerTranscriptDTO, 0, len(answers)),
	}

	for _, ans := range answers {
		questionText := unknownLabel
		question, err := s.questionRepo.FindByID(ctx, ans.QuestionID)
		switch {
		case err == nil:
			questionText = question.QuestionText
		case !isNotFound(err):
			return nil, fmt.Errorf("failed to load question %d: %w", ans.QuestionID, err)
		}

		options, err := s.optionRepo.FindByQuestionID(ctx, ans.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load options for question %d: %w", ans.QuestionID, err)
		}
		choices := toChoices(options)

		resp.Answers = append(resp.Answers, dto.AnswerTranscriptDTO{
			QuestionID:           ans.QuestionID,
			QuestionText:         questionText,
			SelectedOptionID:     ans.SelectedOptionID,
			SelectedOptionLetter: grading.SelectedLetter(choices, ans.SelectedOptionID),
			CorrectOptionLetter:  grading.CorrectLetter(choices),
			IsCorrect:            ans.IsCorrect,
			Options:              toOptionResponses(options),
		})
	}
	return &resp, nil
}
