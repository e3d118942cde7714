package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicebook/internal/apperr"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    string(apperr.KindValidation),
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	appErr, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, errorPayload{
			Type:    string(appErr.Kind),
			Code:    appErr.Code,
			Message: "validation error",
			Errors: []ValidationError{
				{Field: appErr.Field, Code: appErr.Code, Message: "invalid value"},
			},
		}
	case apperr.KindNotFound:
		return http.StatusNotFound, errorPayload{
			Type:    string(appErr.Kind),
			Code:    appErr.Code,
			Message: "not found",
		}
	case apperr.KindInUse:
		return http.StatusConflict, errorPayload{
			Type:    string(appErr.Kind),
			Code:    appErr.Code,
			Message: "still referenced by other records",
		}
	case apperr.KindLastResource:
		return http.StatusConflict, errorPayload{
			Type:    string(appErr.Kind),
			Code:    appErr.Code,
			Message: "at least one record must remain",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog feeds the request logger.
func classifyErrorForLog(err error) (string, string) {
	if asValidationErrors(err) != nil {
		return string(apperr.KindValidation), "invalid_request"
	}
	if appErr, ok := apperr.As(err); ok {
		return string(appErr.Kind), appErr.Code
	}
	return "internal_error", ""
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}
