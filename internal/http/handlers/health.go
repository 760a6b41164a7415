package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness, and whether the session is consuming
// handoffs. Until it is, reattempts from history are dropped.
type HealthHandler struct {
	handoffReady func() bool
}

func NewHealthHandler(handoffReady func() bool) *HealthHandler {
	return &HealthHandler{handoffReady: handoffReady}
}

type healthResponse struct {
	Status       string `json:"status"`
	HandoffReady bool   `json:"handoff_ready"`
}

// GET /healthz
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ready := h.handoffReady == nil || h.handoffReady()
	if !ready {
		c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}
	c.JSON(http.StatusOK, healthResponse{Status: "ok", HandoffReady: true})
}
