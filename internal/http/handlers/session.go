package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/http/response"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/jobs/worker"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/session"
)

type SessionHandler struct {
	log     *logger.Logger
	session *session.Controller
	tasks   *worker.Worker
}

func NewSessionHandler(log *logger.Logger, ctrl *session.Controller, tasks *worker.Worker) *SessionHandler {
	return &SessionHandler{
		log:     log.With("handler", "SessionHandler"),
		session: ctrl,
		tasks:   tasks,
	}
}

// GET /api/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	response.RespondOK(c, h.session.Snapshot())
}

type generateRequest struct {
	URL string `json:"url"`
}

// POST /api/session/generate
func (h *SessionHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	gen, err := h.session.BeginGeneration(req.URL)
	if err != nil {
		respondControllerError(c, err)
		return
	}
	if err := h.tasks.Submit(c.Request.Context(), "generate_quiz", gen.Await); err != nil {
		_ = gen.Abandon(err)
		respondControllerError(c, err)
		return
	}
	response.RespondAccepted(c, h.session.Snapshot())
}

type selectAnswerRequest struct {
	QuestionIndex *int   `json:"question_index"`
	Option        string `json:"option"`
}

// POST /api/session/answers
func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	var req selectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.QuestionIndex == nil {
		respondControllerError(c, session.ErrQuestionIndex)
		return
	}
	if err := h.session.SelectAnswer(*req.QuestionIndex, req.Option); err != nil {
		respondControllerError(c, err)
		return
	}
	response.RespondOK(c, h.session.Snapshot())
}

// POST /api/session/explanations/:index
func (h *SessionHandler) ToggleExplanation(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondControllerError(c, session.ErrQuestionIndex)
		return
	}
	if err := h.session.ToggleExplanation(idx); err != nil {
		respondControllerError(c, err)
		return
	}
	response.RespondOK(c, h.session.Snapshot())
}

// POST /api/session/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	if err := h.session.SubmitQuiz(); err != nil {
		respondControllerError(c, err)
		return
	}
	response.RespondOK(c, h.session.Snapshot())
}

// POST /api/session/reattempt
func (h *SessionHandler) Reattempt(c *gin.Context) {
	if err := h.session.Reattempt(); err != nil {
		respondControllerError(c, err)
		return
	}
	response.RespondOK(c, h.session.Snapshot())
}

// GET /api/session/review
func (h *SessionHandler) Review(c *gin.Context) {
	review, err := h.session.Review()
	if err != nil {
		respondControllerError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": review})
}
