package service

import (
	"context"

	"github.com/lshigami/kwizify/internal/dto"
	"github.com/rs/zerolog/log"
)

// QuizAuthoringService turns an uploaded document into keywords and draft questions.
type QuizAuthoringService interface {
	ExtractKeywords(ctx context.Context, filename string, content []byte) (*dto.ExtractKeywordsResponse, error)
	GenerateQuestions(ctx context.Context, keywords []string) ([]dto.GeneratedQuestion, error)
}

type quizAuthoringService struct {
	documents DocumentService
	keywords  KeywordService
	generator QuestionGenerator
}

func NewQuizAuthoringService(documents DocumentService, keywords KeywordService, generator QuestionGenerator) QuizAuthoringService {
	return &quizAuthoringService{documents: documents, keywords: keywords, generator: generator}
}

// ExtractKeywords always returns the keywords it found. Question generation failures are
// logged and leave Questions empty.
func (s *quizAuthoringService) ExtractKeywords(ctx context.Context, filename string, content []byte) (*dto.ExtractKeywordsResponse, error) {
	text, err := s.documents.ExtractText(filename, content)
	if err != nil {
		return nil, err
	}

	keywords, err := s.keywords.Extract(text)
	if err != nil {
		return nil, err
	}
	resp := &dto.ExtractKeywordsResponse{
		Keywords:  keywords,
		Questions: []dto.GeneratedQuestion{},
	}
	if len(resp.Keywords) == 0 {
		log.Warn().Str("filename", filename).Msg("ExtractKeywords: no keywords found")
		return resp, nil
	}

	questions, err := s.generator.GenerateQuestions(ctx, resp.Keywords)
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("ExtractKeywords: question generation failed")
		return resp, nil
	}
	resp.Questions = questions
	return resp, nil
}

func (s *quizAuthoringService) GenerateQuestions(ctx context.Context, keywords []string) ([]dto.GeneratedQuestion, error) {
	return s.generator.GenerateQuestions(ctx, keywords)
}
