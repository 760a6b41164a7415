package bus

import (
	"context"
	"time"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
)

const publishTimeout = 2 * time.Second

// Notifier adapts a controller's change callback to bus publishes. Publish
// failures are logged and never reach the controller.
func Notifier[T any](log *logger.Logger, b Bus, channel string, event realtime.SSEEvent) func(T) {
	return func(v T) {
		if b == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		msg := realtime.SSEMessage{Channel: channel, Event: event, Data: v}
		if err := b.Publish(ctx, msg); err != nil && log != nil {
			log.Warn("realtime publish failed", "channel", channel, "event", event, "error", err)
		}
	}
}
