package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/spigell/job-matcher/internal/errors"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Meta carries batch counters for match responses.
type Meta struct {
	Total    int    `json:"total"`
	Returned int    `json:"returned"`
	MinScore *int   `json:"min_score,omitempty"`
	RunID    string `json:"run_id,omitempty"`
}

const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeUnavailable   = "UNAVAILABLE"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
)

func SendSuccess(c *gin.Context, statusCode int, data any, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func SendError(c *gin.Context, statusCode int, code, message, details string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func SendBadRequest(c *gin.Context, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	SendError(c, http.StatusBadRequest, ErrCodeBadRequest, message, details)
}

// SendDomainError maps a domain error onto an HTTP status and error code.
func SendDomainError(c *gin.Context, err error) {
	_ = c.Error(err)

	var de *apperrors.DomainError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		SendError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "request cancelled", err.Error())
	case errors.As(err, &de) && de.Type == apperrors.ErrTypeInvalidInput:
		SendError(c, http.StatusBadRequest, ErrCodeValidation, "invalid record", err.Error())
	case errors.As(err, &de) && de.Type == apperrors.ErrTypeNotFound:
		SendError(c, http.StatusNotFound, ErrCodeNotFound, de.Message, "")
	case errors.As(err, &de) && de.Type == apperrors.ErrTypeConfiguration:
		SendError(c, http.StatusInternalServerError, ErrCodeConfiguration, "server misconfigured", err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error", err.Error())
	}
}
