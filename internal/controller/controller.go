package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/middleware"
	"github.com/rs/zerolog/log"
)

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Internal errors keep their details out
// of the response and use fallback as the message.
func RespondError(ctx *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Str("requestID", ctx.GetString(middleware.ContextRequestID)).Msg(fallback)
		ctx.JSON(status, dto.ErrorResponse{Message: fallback})
		return
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}

// ParseIDParam reads a positive integer path parameter, responding 400 when it is malformed.
func ParseIDParam(ctx *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + label + " ID format"})
		return 0, false
	}
	return uint(id), true
}

// BindJSON binds the request body, responding 400 with the validation details on failure.
func BindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	return true
}

// Bind decodes the body according to its Content-Type (JSON or form).
func Bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBind(req); err != nil {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	return true
}

// RequireSelf rejects requests acting on behalf of a user other than the authenticated one.
func RequireSelf(ctx *gin.Context, userID uint) bool {
	current, ok := middleware.AuthenticatedUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return false
	}
	if current != userID {
		log.Warn().Uint("authUserID", current).Uint("userID", userID).Msg("Request for another user rejected")
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Not authorized to act for this user"})
		return false
	}
	return true
}
