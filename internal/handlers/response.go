package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Issues  []apperr.FieldIssue `json:"issues,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps the service error taxonomy onto HTTP statuses so every
// handler surfaces failures the same way.
func RespondAppError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	var issues []apperr.FieldIssue

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status, code = http.StatusNotFound, "not_found"
	case apperr.KindInvalidArgument:
		status, code = http.StatusBadRequest, "invalid_argument"
	case apperr.KindConflict:
		status, code = http.StatusConflict, "conflict"
	case apperr.KindContentInvalid:
		status, code = http.StatusUnprocessableEntity, "content_invalid"
	case apperr.KindUnavailable:
		status, code = http.StatusBadGateway, "upstream_unavailable"
	case apperr.KindUnauthorized:
		status, code = http.StatusUnauthorized, "unauthorized"
	case apperr.KindForbidden:
		status, code = http.StatusForbidden, "forbidden"
	}

	var appErr *apperr.Error
	if apperr.As(err, &appErr) {
		issues = appErr.Issues
	}

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Issues:  issues,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
