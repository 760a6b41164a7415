package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
)

type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub
	// Initial returns the messages a new stream starts with, so a client
	// that connects late still sees current state.
	Initial func() []realtime.SSEMessage
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, initial func() []realtime.SSEMessage) *RealtimeHandler {
	return &RealtimeHandler{
		Log:     log.With("handler", "RealtimeHandler"),
		Hub:     hub,
		Initial: initial,
	}
}

// GET /api/events?channel=session&channel=history
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	channels := c.QueryArray("channel")
	if len(channels) == 0 {
		channels = realtime.DefaultChannels
	}

	client := h.Hub.NewSSEClient()
	for _, ch := range channels {
		h.Hub.AddChannel(client, ch)
	}
	defer h.Hub.CloseClient(client)

	if h.Initial != nil {
		for _, msg := range h.Initial() {
			if client.Channels[msg.Channel] {
				client.TrySend(msg)
			}
		}
	}

	h.Log.Debug("SSE stream open", "clientID", client.ID, "channels", channels)
	h.Hub.ServeHTTP(c.Writer, c.Request, client)
	h.Log.Debug("SSE stream closed", "clientID", client.ID)
}
