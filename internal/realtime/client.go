package realtime

import (
	"github.com/google/uuid"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

const outboundBuffer = 32

// SSEClient is one open /api/events stream. Channels is guarded by the hub.
type SSEClient struct {
	ID       uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	Logger   *logger.Logger
}

func newSSEClient(log *logger.Logger) *SSEClient {
	id := uuid.New()
	return &SSEClient{
		ID:       id,
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, outboundBuffer),
		done:     make(chan struct{}),
		Logger:   log.With("client_id", id.String()),
	}
}

// TrySend queues msg without blocking and reports whether it fit.
func (c *SSEClient) TrySend(msg SSEMessage) bool {
	select {
	case c.Outbound <- msg:
		return true
	default:
		return false
	}
}
