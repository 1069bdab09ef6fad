package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/logger"
	"github.com/SahilxSingh/EduConnect/pkg/ratelimiter"
	"github.com/SahilxSingh/EduConnect/pkg/validator"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated external identity id.
const UserIDKey = "user_id"

// GetUserID retrieves the authenticated user's external id from the context
func GetUserID(c *gin.Context) (string, error) {
	userID := strings.TrimSpace(c.GetString(UserIDKey))
	if userID == "" {
		return "", apperror.ErrUnauthorized
	}
	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
		return
	}

	code := apperror.MapErrorToStatus(err)

	if code >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// BindError answers a failed ShouldBind* call with a readable 400.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
