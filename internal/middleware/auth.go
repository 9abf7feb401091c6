package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/service"
)

const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

func JWTAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid authorization header format"})
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			status := http.StatusUnauthorized
			switch {
			case errors.Is(err, apperr.ErrForbidden):
				status = http.StatusForbidden
			case !errors.Is(err, apperr.ErrUnauthorized):
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: "could not validate credentials", Details: []string{err.Error()}})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// AuthenticatedUserID returns the id set by JWTAuth.
func AuthenticatedUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
