package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, keywords []string) ([]dto.GeneratedQuestion, error)
}

// contentGenerator is the part of *genai.GenerativeModel the generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiQuestionGenerator struct {
	model         contentGenerator
	questionCount int
}

func NewQuestionGenerator(lc fx.Lifecycle, cfg *config.Config) (QuestionGenerator, error) {
	count := cfg.Gemini.QuestionCount
	if count <= 0 {
		count = 5
	}
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation will be unavailable.")
		return &geminiQuestionGenerator{questionCount: count}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Gemini client")
			return client.Close()
		},
	})

	model := client.GenerativeModel(cfg.Gemini.Model)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(2048)
	model.ResponseMIMEType = "application/json"
	return &geminiQuestionGenerator{model: model, questionCount: count}, nil
}

func (g *geminiQuestionGenerator) buildPrompt(keywords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions based on these keywords: %s\n\n", g.questionCount, strings.Join(keywords, ", "))
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Each question must relate to the keywords.\n")
	b.WriteString("2. Each item has \"question\" (full question text), \"options\" (exactly 4 answer options) and \"correct_answer\" (the exact text of the correct option).\n")
	b.WriteString("3. Exactly one option is correct. Make the questions educational and challenging.\n\n")
	b.WriteString("Respond with a JSON array only, no prose, for example:\n")
	b.WriteString(`[{"question": "What describes X?", "options": ["W", "X", "Y", "Z"], "correct_answer": "X"}]`)
	return b.String()
}

func (g *geminiQuestionGenerator) GenerateQuestions(ctx context.Context, keywords []string) ([]dto.GeneratedQuestion, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: no keywords provided", apperr.ErrValidation)
	}
	if g.model == nil {
		return nil, fmt.Errorf("%w: question generator is not configured", apperr.ErrUnavailable)
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(g.buildPrompt(keywords)))
	if err != nil {
		log.Error().Err(err).Int("keywords", len(keywords)).Msg("Gemini API error during question generation")
		return nil, fmt.Errorf("%w: gemini request failed: %v", apperr.ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return nil, fmt.Errorf("%w: gemini returned no content", apperr.ErrUnavailable)
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		}
	}

	questions, err := parseGeneratedQuestions(raw.String())
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", raw.String()).Msg("Failed to parse generated questions")
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	log.Info().Int("questions", len(questions)).Msg("Questions generated")
	return questions, nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "[") {
		start, end := strings.Index(content, "["), strings.LastIndex(content, "]")
		if start >= 0 && end > start {
			content = content[start : end+1]
		}
	}
	return content
}

// parseGeneratedQuestions keeps only items carrying a question, at least two options and a correct answer.
func parseGeneratedQuestions(raw string) ([]dto.GeneratedQuestion, error) {
	var items []dto.GeneratedQuestion
	if err := json.Unmarshal([]byte(cleanJSONContent(raw)), &items); err != nil {
		return nil, fmt.Errorf("invalid question JSON: %w", err)
	}

	valid := make([]dto.GeneratedQuestion, 0, len(items))
	for _, q := range items {
		q.Question = strings.TrimSpace(q.Question)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
		if q.Question == "" || len(q.Options) < 2 || q.CorrectAnswer == "" {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid questions generated")
	}
	return valid, nil
}
