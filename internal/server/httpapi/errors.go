package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobassist/internal/common"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// detail strips the sentinel prefix from a wrapped validation or
// transition error, leaving the field-specific text.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return sentinel.Error()
}

func classify(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, errorResponse{"unauthenticated", "authentication required"}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{"not_found", "resource not found"}
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, errorResponse{"validation", detail(err, common.ErrorValidation)}
	case errors.Is(err, common.ErrInvalidTransition):
		return http.StatusConflict, errorResponse{"invalid_transition", "cannot change status: " + detail(err, common.ErrInvalidTransition)}
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, errorResponse{"already_exists", "resource already exists"}
	case errors.Is(err, common.ErrConsistencyGap):
		return http.StatusServiceUnavailable, errorResponse{"consistency_gap", "the change was saved but statistics are catching up, retry shortly"}
	}
	return http.StatusInternalServerError, errorResponse{"internal", "internal server error"}
}

// fail aborts the request with the mapped status and a JSON error body.
func (h *Handler) fail(c *gin.Context, err error) {
	status, body := classify(err)
	switch status {
	case http.StatusInternalServerError:
		h.logger.Error(c.Request.Context(), "request failed", "route", c.FullPath(), "error", err)
	case http.StatusServiceUnavailable:
		c.Header("Retry-After", "1")
		h.logger.Warn(c.Request.Context(), "request degraded", "route", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return common.ErrorValidation.Error() + ": " + e.msg }
func (e *validationError) Unwrap() error { return common.ErrorValidation }
