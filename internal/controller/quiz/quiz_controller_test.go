package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/middleware"
	"github.com/lshigami/kwizify/internal/model"
	"github.com/lshigami/kwizify/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeCatalog struct {
	saved     *dto.SaveQuizRequest
	deletedBy uint
	quizzes   map[uint]*model.Quiz
}

func (f *fakeCatalog) GetQuiz(_ context.Context, id uint) (*model.Quiz, error) {
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("%w: quiz %d", apperr.ErrNotFound, id)
}
func (f *fakeCatalog) ListQuestions(context.Context, uint) ([]model.Question, error) { return nil, nil }
func (f *fakeCatalog) ListOptions(context.Context, uint) ([]model.Option, error)     { return nil, nil }
func (f *fakeCatalog) GetQuizDetail(ctx context.Context, id uint) (*dto.QuizDetailResponse, error) {
	q, err := f.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.QuizDetailResponse{ID: q.ID, Title: q.Title, CreatorID: q.CreatorID}, nil
}
func (f *fakeCatalog) ListUserQuizzes(_ context.Context, creatorID uint) ([]dto.QuizSummaryResponse, error) {
	return []dto.QuizSummaryResponse{{ID: 1, Title: "Go", QuestionCount: 2}}, nil
}
func (f *fakeCatalog) SaveQuiz(_ context.Context, req dto.SaveQuizRequest) (uint, error) {
	f.saved = &req
	return 77, nil
}
func (f *fakeCatalog) DeleteQuiz(ctx context.Context, quizID, requesterID uint) error {
	q, err := f.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if q.CreatorID != requesterID {
		return fmt.Errorf("%w: not the creator", apperr.ErrForbidden)
	}
	f.deletedBy = requesterID
	return nil
}

type fakeAuthoring struct {
	filename string
	content  []byte
}

func (f *fakeAuthoring) ExtractKeywords(_ context.Context, filename string, content []byte) (*dto.ExtractKeywordsResponse, error) {
	f.filename, f.content = filename, content
	return &dto.ExtractKeywordsResponse{Keywords: []string{"goroutine"}, Questions: []dto.GeneratedQuestion{}}, nil
}
func (f *fakeAuthoring) GenerateQuestions(context.Context, []string) ([]dto.GeneratedQuestion, error) {
	return nil, fmt.Errorf("%w: not configured", apperr.ErrUnavailable)
}

func newEngine(catalog *fakeCatalog, authoring *fakeAuthoring, authUserID uint) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, authUserID)
		c.Next()
	})
	cfg := &config.Config{Upload: config.Upload{MaxBytes: 1 << 20}}
	NewQuizController(catalog, authoring, cfg).RegisterRoutes(api)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func saveBody(userID uint) map[string]interface{} {
	return map[string]interface{}{
		"quiz_title":       "Go basics",
		"quiz_description": "warm-up",
		"user_id":          userID,
		"questions": []map[string]interface{}{
			{"question": "Keyword for goroutines?", "options": []string{"go", "run", "spawn", "thread"}, "correct_answer": "go"},
		},
	}
}

func TestSaveQuiz(t *testing.T) {
	catalog := &fakeCatalog{}
	w := doJSON(newEngine(catalog, &fakeAuthoring{}, 3), http.MethodPost, "/api/v1/save-quiz", saveBody(3))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"quiz_id":77}`, w.Body.String())
	require.NotNil(t, catalog.saved)
	assert.Equal(t, "Go basics", catalog.saved.QuizTitle)

	w = doJSON(newEngine(&fakeCatalog{}, &fakeAuthoring{}, 4), http.MethodPost, "/api/v1/save-quiz", saveBody(3))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSaveQuiz_BlankOptionRejected(t *testing.T) {
	body := saveBody(3)
	body["questions"] = []map[string]interface{}{
		{"question": "Q?", "options": []string{"a", "  "}, "correct_answer": "a"},
	}
	w := doJSON(newEngine(&fakeCatalog{}, &fakeAuthoring{}, 3), http.MethodPost, "/api/v1/save-quiz", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndDeleteQuiz(t *testing.T) {
	catalog := &fakeCatalog{quizzes: map[uint]*model.Quiz{5: {ID: 5, Title: "Go", CreatorID: 3}}}

	w := doJSON(newEngine(catalog, &fakeAuthoring{}, 3), http.MethodGet, "/api/v1/quiz/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Go"`)

	w = doJSON(newEngine(catalog, &fakeAuthoring{}, 3), http.MethodGet, "/api/v1/quiz/6", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(newEngine(catalog, &fakeAuthoring{}, 9), http.MethodDelete, "/api/v1/quiz/5", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(newEngine(catalog, &fakeAuthoring{}, 3), http.MethodDelete, "/api/v1/quiz/5", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint(3), catalog.deletedBy)
}

func TestListUserQuizzes(t *testing.T) {
	w := doJSON(newEngine(&fakeCatalog{}, &fakeAuthoring{}, 3), http.MethodGet, "/api/v1/user/3/quizzes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"question_count":2`)

	w = doJSON(newEngine(&fakeCatalog{}, &fakeAuthoring{}, 3), http.MethodGet, "/api/v1/user/8/quizzes", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerateQuestions_Unavailable(t *testing.T) {
	w := doJSON(newEngine(&fakeCatalog{}, &fakeAuthoring{}, 3), http.MethodPost, "/api/v1/generate-questions",
		map[string]interface{}{"keywords": []string{"channels"}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(newEngine(&fakeCatalog{}, &fakeAuthoring{}, 3), http.MethodPost, "/api/v1/generate-questions",
		map[string]interface{}{"keywords": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractKeywords_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Goroutines and channels"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	authoring := &fakeAuthoring{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract-keywords", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newEngine(&fakeCatalog{}, authoring, 3).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "notes.txt", authoring.filename)
	assert.Equal(t, "Goroutines and channels", string(authoring.content))
	assert.Contains(t, w.Body.String(), `"keywords":["goroutine"]`)
}

func TestExtractKeywords_MissingFile(t *testing.T) {
	w := doJSON(newEngine(&fakeCatalog{}, &fakeAuthoring{}, 3), http.MethodPost, "/api/v1/extract-keywords", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
