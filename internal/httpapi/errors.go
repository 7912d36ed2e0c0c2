package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"liferpg/internal/engine"
	"liferpg/internal/storage"
)

// APIError is an error with the HTTP status and code it should be reported as.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

func badRequest(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "bad_request", Message: msg}
}

func unauthorized(msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: msg}
}

// toAPIError maps engine and storage errors onto HTTP responses.
// Anything unrecognized is a 500 with a generic message.
func toAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	var (
		verr engine.ValidationError
		cerr engine.CapacityError
	)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "not_found", Message: err.Error()}, true
	case errors.Is(err, engine.ErrAlreadyCompleted):
		return &APIError{Status: http.StatusBadRequest, Code: "already_completed", Message: err.Error()}, true
	case errors.Is(err, engine.ErrAlreadyUnlocked):
		return &APIError{Status: http.StatusBadRequest, Code: "already_unlocked", Message: err.Error()}, true
	case errors.Is(err, engine.ErrNotAvailable):
		return &APIError{Status: http.StatusBadRequest, Code: "not_available", Message: err.Error()}, true
	case errors.As(err, &cerr):
		return &APIError{Status: http.StatusBadRequest, Code: "role_limit", Message: err.Error()}, true
	case errors.As(err, &verr):
		return &APIError{Status: http.StatusBadRequest, Code: "validation", Message: err.Error()}, true
	case errors.Is(err, engine.ErrInvariant):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "invariant", Message: err.Error()}, true
	case errors.Is(err, storage.ErrStaleWrite):
		return &APIError{Status: http.StatusConflict, Code: "conflict", Message: "the record changed, retry the request"}, true
	}
	return &APIError{Status: http.StatusInternalServerError, Code: "internal", Message: "internal server error"}, false
}

// errorMiddleware recovers panics and renders the last error attached to the context.
func errorMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		apiErr, known := toAPIError(err)
		if !known {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled request error")
		}
		c.JSON(apiErr.Status, apiErr)
	}
}
