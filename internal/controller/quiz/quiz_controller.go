package quiz

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/controller"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/middleware"
	"github.com/lshigami/kwizify/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	catalogService   service.QuizCatalogService
	authoringService service.QuizAuthoringService
	maxUploadBytes   int64
}

func NewQuizController(catalogService service.QuizCatalogService, authoringService service.QuizAuthoringService, cfg *config.Config) *QuizController {
	return &QuizController{
		catalogService:   catalogService,
		authoringService: authoringService,
		maxUploadBytes:   cfg.Upload.MaxBytes,
	}
}

func (c *QuizController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/extract-keywords", c.ExtractKeywords)
	api.POST("/generate-questions", c.GenerateQuestions)
	api.POST("/save-quiz", c.SaveQuiz)
	api.GET("/quiz/:quiz_id", c.GetQuiz)
	api.DELETE("/quiz/:quiz_id", c.DeleteQuiz)
	api.GET("/user/:user_id/quizzes", c.ListUserQuizzes)
}

// ExtractKeywords godoc
// @Summary Extract keywords from a document
// @Description Upload a PDF or text file. Returns the extracted keywords and, when generation is available, draft questions.
// @Tags Quiz Authoring
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF or text document"
// @Success 200 {object} dto.ExtractKeywordsResponse
// @Failure 400 {object} dto.ErrorResponse "Missing, empty, oversized or unreadable file"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/extract-keywords [post]
func (c *QuizController) ExtractKeywords(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "A file is required", Details: []string{err.Error()}})
		return
	}
	if c.maxUploadBytes > 0 && fileHeader.Size > c.maxUploadBytes {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "File is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not open uploaded file", Details: []string{err.Error()}})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read uploaded file", Details: []string{err.Error()}})
		return
	}
	log.Info().Str("filename", fileHeader.Filename).Int("bytes", len(content)).Msg("Received file upload")

	resp, err := c.authoringService.ExtractKeywords(ctx.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to extract keywords")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GenerateQuestions godoc
// @Summary Generate multiple-choice questions
// @Tags Quiz Authoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateQuestionsRequest true "Keywords"
// @Success 200 {array} dto.GeneratedQuestion
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 503 {object} dto.ErrorResponse "Question generation unavailable"
// @Router /api/v1/generate-questions [post]
func (c *QuizController) GenerateQuestions(ctx *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	questions, err := c.authoringService.GenerateQuestions(ctx.Request.Context(), req.Keywords)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to generate questions")
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// SaveQuiz godoc
// @Summary Save a quiz
// @Description Persists a quiz with its questions. Each correct_answer is the text of one option or its letter.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveQuizRequest true "Quiz"
// @Success 201 {object} dto.SaveQuizResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz"
// @Failure 403 {object} dto.ErrorResponse "User mismatch"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to save quiz"
// @Router /api/v1/save-quiz [post]
func (c *QuizController) SaveQuiz(ctx *gin.Context) {
	var req dto.SaveQuizRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	if !controller.RequireSelf(ctx, req.UserID) {
		return
	}

	quizID, err := c.catalogService.SaveQuiz(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to save quiz")
		return
	}
	ctx.JSON(http.StatusCreated, dto.SaveQuizResponse{QuizID: quizID})
}

// GetQuiz godoc
// @Summary Get a quiz with its questions and options
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid Quiz ID format"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /api/v1/quiz/{quiz_id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID, ok := controller.ParseIDParam(ctx, "quiz_id", "Quiz")
	if !ok {
		return
	}
	detail, err := c.catalogService.GetQuizDetail(ctx.Request.Context(), quizID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve quiz")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Only the creator may delete. Attempts on the quiz are kept.
// @Tags Quizzes
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse "Not the creator"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /api/v1/quiz/{quiz_id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, ok := controller.ParseIDParam(ctx, "quiz_id", "Quiz")
	if !ok {
		return
	}
	userID, ok := middleware.AuthenticatedUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}
	if err := c.catalogService.DeleteQuiz(ctx.Request.Context(), quizID, userID); err != nil {
		controller.RespondError(ctx, err, "Failed to delete quiz")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListUserQuizzes godoc
// @Summary List quizzes created by a user
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.QuizSummaryResponse
// @Failure 403 {object} dto.ErrorResponse "User mismatch"
// @Router /api/v1/user/{user_id}/quizzes [get]
func (c *QuizController) ListUserQuizzes(ctx *gin.Context) {
	userID, ok := controller.ParseIDParam(ctx, "user_id", "User")
	if !ok {
		return
	}
	if !controller.RequireSelf(ctx, userID) {
		return
	}
	quizzes, err := c.catalogService.ListUserQuizzes(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve quizzes")
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}
