package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/appshelf/appshelf/internal/core/auth"
	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
)

// ErrorHandler renders the last error handlers attached with c.Error.
// A persistence failure is not fatal: the change is already applied, so
// the handler's body is kept and the failure is reported in a header.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var pe *collection.PersistenceError
		if errors.As(err, &pe) {
			log.Warn().Err(pe.Err).Str("key", pe.Key).Str("path", c.FullPath()).Msg("change applied but not persisted")
			if !c.Writer.Written() {
				c.Header(PersistenceWarningHeader, pe.Error())
				c.JSON(http.StatusAccepted, gin.H{"warning": pe.Error()})
			}
			return
		}

		if c.Writer.Written() {
			return
		}

		status, body := Render(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		}
		c.AbortWithStatusJSON(status, body)
	}
}

const PersistenceWarningHeader = "X-Persistence-Warning"

// Render maps a service error onto a status code and JSON body.
func Render(err error) (int, gin.H) {
	if ve := validation.GetValidationErrors(err); ve != nil {
		return http.StatusBadRequest, gin.H{"error": "validation failed", "details": ve.Errors}
	}

	switch {
	case errors.Is(err, collection.ErrNotFound), errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, collection.ErrConflict), errors.Is(err, auth.ErrUserExists),
		errors.Is(err, auth.ErrAlreadyAdmin), errors.Is(err, auth.ErrNotAdmin), errors.Is(err, auth.ErrLastAdmin):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, gin.H{"error": err.Error()}
	case errors.Is(err, auth.ErrForbidden), errors.Is(err, auth.ErrInactive):
		return http.StatusForbidden, gin.H{"error": err.Error()}
	}
	return http.StatusInternalServerError, gin.H{"error": "internal server error"}
}
