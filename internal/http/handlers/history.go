package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/history"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http/response"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/jobs/worker"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

type HistoryHandler struct {
	log     *logger.Logger
	history *history.Controller
	tasks   *worker.Worker
}

func NewHistoryHandler(log *logger.Logger, ctrl *history.Controller, tasks *worker.Worker) *HistoryHandler {
	return &HistoryHandler{
		log:     log.With("handler", "HistoryHandler"),
		history: ctrl,
		tasks:   tasks,
	}
}

// GET /api/history
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	response.RespondOK(c, h.history.Snapshot())
}

// POST /api/history/:id/open
func (h *HistoryHandler) OpenDetail(c *gin.Context) {
	req, err := h.history.BeginOpenDetail(quiz.ID(c.Param("id")))
	if err != nil {
		respondControllerError(c, err)
		return
	}
	if err := h.tasks.Submit(c.Request.Context(), "history_detail", req.Await); err != nil {
		_ = req.Abandon(err)
		respondControllerError(c, err)
		return
	}
	response.RespondAccepted(c, h.history.Snapshot())
}

// DELETE /api/history/detail
func (h *HistoryHandler) CloseDetail(c *gin.Context) {
	h.history.CloseDetail()
	response.RespondOK(c, h.history.Snapshot())
}

// POST /api/history/detail/explanations/:key
func (h *HistoryHandler) ToggleExplanation(c *gin.Context) {
	if err := h.history.ToggleExplanation(c.Param("key")); err != nil {
		respondControllerError(c, err)
		return
	}
	response.RespondOK(c, h.history.Snapshot())
}

// POST /api/history/detail/reattempt
func (h *HistoryHandler) Reattempt(c *gin.Context) {
	if err := h.history.HandOffToSession(); err != nil {
		respondControllerError(c, err)
		return
	}
	response.RespondOK(c, h.history.Snapshot())
}
