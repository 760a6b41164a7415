package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/history"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http/response"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/jobs/worker"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/apierr"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/session"
)

// respondControllerError maps a refused controller operation to a status.
// Refusals leave state untouched, so none of them is a server error except
// a stopped worker.
func respondControllerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidURL),
		errors.Is(err, session.ErrQuestionIndex),
		errors.Is(err, history.ErrInvalidID),
		errors.Is(err, history.ErrQuestionKey):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, session.ErrGenerationPending),
		errors.Is(err, session.ErrNoQuiz),
		errors.Is(err, session.ErrNoQuestions),
		errors.Is(err, session.ErrAlreadySubmitted),
		errors.Is(err, session.ErrNotSubmitted),
		errors.Is(err, history.ErrDetailNotLoaded),
		errors.Is(err, history.ErrHandoffDropped):
		response.RespondError(c, http.StatusConflict, "invalid_state", err)
	case errors.Is(err, worker.ErrStopped):
		response.RespondError(c, http.StatusServiceUnavailable, "shutting_down", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

// ExpectedTaskResult reports background task outcomes that need no warning:
// superseded or stale responses, and failures the controllers already
// surfaced in their state.
func ExpectedTaskResult(err error) bool {
	return errors.Is(err, session.ErrSuperseded) ||
		errors.Is(err, history.ErrStale) ||
		apierr.IsTransport(err)
}
