package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/wellness-profile/internal/service"
	"github.com/rcliao/wellness-profile/internal/store"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
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

// respondEngineError maps engine errors onto status codes.
func (s *Server) respondEngineError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, service.ErrNoSearcher), errors.Is(err, service.ErrNoAssistant):
		respondError(c, http.StatusServiceUnavailable, "unavailable", err)
	default:
		s.log.Error("request failed", "path", c.FullPath(), "user_id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, code, err)
	}
}
