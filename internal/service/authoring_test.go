package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordExtract(t *testing.T) {
	svc := NewKeywordService()
	got, err := svc.Extract("The scheduler runs many goroutines on a few threads. The scheduler is cheap; 2024 is a year, go is short.")
	require.NoError(t, err)
	assert.Contains(t, got, "scheduler")
	assert.Contains(t, got, "goroutines")
	assert.Contains(t, got, "threads")
	assert.Contains(t, got, "year")
	for _, word := range []string{"the", "is", "2024", "go"} {
		assert.NotContains(t, got, word)
	}

	seen := map[string]bool{}
	for _, w := range got {
		assert.False(t, seen[w], "duplicate keyword %q", w)
		assert.Equal(t, strings.ToLower(w), w)
		seen[w] = true
	}
}

func TestKeywordExtract_DropsVerbsAndAdverbs(t *testing.T) {
	got, err := NewKeywordService().Extract("Students quickly studied photosynthesis and carefully wrote detailed reports.")
	require.NoError(t, err)
	assert.Contains(t, got, "students")
	assert.Contains(t, got, "photosynthesis")
	assert.Contains(t, got, "reports")
	for _, word := range []string{"quickly", "studied", "carefully", "wrote", "and"} {
		assert.NotContains(t, got, word)
	}
}

func TestKeywordExtract_Empty(t *testing.T) {
	got, err := NewKeywordService().Extract("  the and of  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDocumentExtractText(t *testing.T) {
	svc := NewDocumentService(&config.Config{Upload: config.Upload{MaxBytes: 32}})

	text, err := svc.ExtractText("notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	text, err = svc.ExtractText("bin.txt", []byte{'o', 'k', 0xff, '!'})
	require.NoError(t, err)
	assert.Equal(t, "ok\uFFFD!", text)

	_, err = svc.ExtractText("empty.txt", nil)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.ExtractText("big.txt", []byte(strings.Repeat("x", 33)))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.ExtractText("fake.PDF", []byte("this is not a pdf"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestParseGeneratedQuestions(t *testing.T) {
	raw := "```json\n[" +
		`{"question": "What is a goroutine?", "options": ["thread", "lightweight thread", "process", "fiber"], "correct_answer": "lightweight thread"},` +
		`{"question": "", "options": ["a", "b"], "correct_answer": "a"},` +
		`{"question": "Missing answer", "options": ["a", "b"]}` +
		"]\n```"
	got, err := parseGeneratedQuestions(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lightweight thread", got[0].CorrectAnswer)

	got, err = parseGeneratedQuestions(`Here you go: [{"question": "Q", "options": ["x", "y"], "correct_answer": "x"}] Enjoy!`)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = parseGeneratedQuestions("no json here")
	assert.Error(t, err)
	_, err = parseGeneratedQuestions(`[{"question": "", "options": [], "correct_answer": ""}]`)
	assert.Error(t, err)
}

type fakeModel struct {
	prompt string
	reply  string
	err    error
}

func (m *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if txt, ok := parts[0].(genai.Text); ok {
			m.prompt = string(txt)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text(m.reply)}}}},
	}, nil
}

func TestGeminiQuestionGenerator(t *testing.T) {
	model := &fakeModel{reply: `[{"question": "Q", "options": ["x", "y", "z", "w"], "correct_answer": "y"}]`}
	gen := &geminiQuestionGenerator{model: model, questionCount: 3}

	got, err := gen.GenerateQuestions(context.Background(), []string{"channels", "select"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, model.prompt, "Generate 3 multiple-choice questions")
	assert.Contains(t, model.prompt, "channels, select")

	_, err = gen.GenerateQuestions(context.Background(), nil)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	model.err = errors.New("quota exceeded")
	_, err = gen.GenerateQuestions(context.Background(), []string{"x"})
	assert.True(t, errors.Is(err, apperr.ErrUnavailable))

	unconfigured := &geminiQuestionGenerator{questionCount: 5}
	_, err = unconfigured.GenerateQuestions(context.Background(), []string{"x"})
	assert.True(t, errors.Is(err, apperr.ErrUnavailable))
}

type stubGenerator struct {
	questions []dto.GeneratedQuestion
	err       error
	keywords  []string
}

func (g *stubGenerator) GenerateQuestions(_ context.Context, keywords []string) ([]dto.GeneratedQuestion, error) {
	g.keywords = keywords
	return g.questions, g.err
}

func TestQuizAuthoring_ExtractKeywords(t *testing.T) {
	docs := NewDocumentService(&config.Config{Upload: config.Upload{MaxBytes: 1 << 10}})
	gen := &stubGenerator{questions: []dto.GeneratedQuestion{{Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: "a"}}}
	svc := NewQuizAuthoringService(docs, NewKeywordService(), gen)

	resp, err := svc.ExtractKeywords(context.Background(), "notes.txt", []byte("The buffered channels synchronize the goroutines."))
	require.NoError(t, err)
	assert.Contains(t, resp.Keywords, "channels")
	assert.NotContains(t, resp.Keywords, "synchronize")
	assert.Equal(t, resp.Keywords, gen.keywords)
	assert.Len(t, resp.Questions, 1)

	gen.err = fmt.Errorf("%w: down", apperr.ErrUnavailable)
	resp, err = svc.ExtractKeywords(context.Background(), "notes.txt", []byte("The buffered channels synchronize the goroutines."))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Keywords)
	assert.Empty(t, resp.Questions)

	_, err = svc.ExtractKeywords(context.Background(), "empty.txt", nil)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
