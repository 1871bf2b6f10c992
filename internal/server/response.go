package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/theory"
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
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondDomainError maps generator and theory errors to a status.
func respondDomainError(c *gin.Context, err error) {
	var perr *problemgen.ParamError
	switch {
	case errors.As(err, &perr):
		respondError(c, http.StatusBadRequest, "invalid_param", err)
	case errors.Is(err, theory.ErrUnknownQuestionType):
		respondError(c, http.StatusBadRequest, "unknown_question_type", err)
	case errors.Is(err, problemgen.ErrUnknownDomain):
		respondError(c, http.StatusNotFound, "unknown_domain", err)
	case errors.Is(err, theory.ErrTopicNotFound):
		respondError(c, http.StatusNotFound, "topic_not_found", err)
	case errors.Is(err, theory.ErrNoTemplates):
		respondError(c, http.StatusNotFound, "no_templates", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal", err)
	}
}
