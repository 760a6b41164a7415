package bus

import (
	"context"
	"strings"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
)

// Bus carries state-change messages from the controllers to the SSE hub,
// possibly through another process.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

type Config struct {
	RedisAddr    string
	RedisChannel string
}

// New returns the redis bus when an address is configured and the
// in-process bus otherwise.
func New(log *logger.Logger, cfg Config) (Bus, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return NewMemoryBus(log), nil
	}
	return NewRedisBus(log, cfg)
}
