package attempt

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/internal/controller"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/middleware"
	"github.com/lshigami/kwizify/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
}

func NewAttemptController(attemptService service.AttemptService) *AttemptController {
	return &AttemptController{attemptService: attemptService}
}

func (c *AttemptController) RegisterRoutes(api *gin.RouterGroup) {
	attempts := api.Group("/quiz-attempts")
	attempts.POST("/start", c.StartAttempt)
	attempts.POST("/submit", c.SubmitAttempt)
	attempts.GET("/user/:user_id", c.ListUserAttempts)
	attempts.GET("/:attempt_id", c.GetAttemptDetail)
}

// StartAttempt godoc
// @Summary Start a quiz attempt
// @Description Records the start time of an attempt. Optional: submission creates its own attempt.
// @Tags Quiz Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartAttemptRequest true "Quiz and user"
// @Success 200 {object} dto.StartAttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "User mismatch"
// @Failure 404 {object} dto.ErrorResponse "Quiz or user not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/quiz-attempts/start [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	var req dto.StartAttemptRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	if !controller.RequireSelf(ctx, req.UserID) {
		return
	}

	resp, err := c.attemptService.StartAttempt(ctx.Request.Context(), req.QuizID, req.UserID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to start quiz attempt")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary Submit and grade a quiz attempt
// @Description Grades one answer letter per question, in question order. Letters that do not address an option count as wrong.
// @Tags Quiz Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitAttemptRequest true "Selected letters"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid body or answer count mismatch"
// @Failure 403 {object} dto.ErrorResponse "User mismatch"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to submit quiz attempt"
// @Router /api/v1/quiz-attempts/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	var req dto.SubmitAttemptRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	if !controller.RequireSelf(ctx, req.UserID) {
		return
	}

	log.Info().Uint("quizID", req.QuizID).Uint("userID", req.UserID).Int("answerCount", len(req.SelectedOptions)).
		Str("requestID", ctx.GetString(middleware.ContextRequestID)).Msg("Received quiz attempt submission")

	result, err := c.attemptService.SubmitAttempt(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to submit quiz attempt")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListUserAttempts godoc
// @Summary List a user's attempts
// @Description Most recently started first. Attempts on deleted quizzes show the title "Unknown".
// @Tags Quiz Attempts
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 403 {object} dto.ErrorResponse "User mismatch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/quiz-attempts/user/{user_id} [get]
func (c *AttemptController) ListUserAttempts(ctx *gin.Context) {
	userID, ok := controller.ParseIDParam(ctx, "user_id", "User")
	if !ok {
		return
	}
	if !controller.RequireSelf(ctx, userID) {
		return
	}

	attempts, err := c.attemptService.ListUserAttempts(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve quiz attempts")
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetAttemptDetail godoc
// @Summary Get the transcript of an attempt
// @Description Per-question answers with the selected and correct letters recomputed from stored option IDs.
// @Tags Quiz Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptTranscriptDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Attempt ID format"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/quiz-attempts/{attempt_id} [get]
func (c *AttemptController) GetAttemptDetail(ctx *gin.Context) {
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id", "Attempt")
	if !ok {
		return
	}

	detail, err := c.attemptService.GetAttemptDetail(ctx.Request.Context(), attemptID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve quiz attempt")
		return
	}
	if !controller.RequireSelf(ctx, detail.UserID) {
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
