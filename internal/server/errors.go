package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/feedbackrelay/internal/apperr"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRateLimited        = errors.New("rate_limited")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	case errors.Is(err, ErrUnauthorized), apperr.IsKind(err, apperr.KindAuthentication):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}
	case errors.Is(err, ErrInvalidRequest), apperr.IsKind(err, apperr.KindMalformedInput):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: clientMessage(err)}
	case errors.Is(err, ErrNotFound), apperr.IsKind(err, apperr.KindNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: "too many requests"}
	case apperr.IsKind(err, apperr.KindDependencyFailed):
		return http.StatusBadGateway, errorPayload{Type: "dependency_failed", Message: "upstream request failed"}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{Type: "service_unavailable", Message: "service unavailable"}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

// clientMessage exposes the innermost cause of a rejected request, never
// the operation chain.
func clientMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}

// classifyErrorForLog feeds the request logger a type and a kind code.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := string(apperr.KindOf(err))
	if code == "" {
		code = payload.Type
	}
	return payload.Type, code
}
