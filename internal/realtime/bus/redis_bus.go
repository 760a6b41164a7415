package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
)

const (
	defaultRedisChannel = "quiz-events"
	redisDialTimeout    = 5 * time.Second
	forwardBuffer       = 64
)

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// envelope is the pub/sub payload. Data stays raw so snapshots reach SSE
// clients byte for byte as the publishing process encoded them.
type envelope struct {
	Channel string            `json:"channel"`
	Event   realtime.SSEEvent `json:"event"`
	Data    json.RawMessage   `json:"data,omitempty"`
}

// redisOptions accepts either host:port or a redis:// URL.
func redisOptions(addr string) (*goredis.Options, error) {
	if strings.Contains(addr, "://") {
		opts, err := goredis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &goredis.Options{Addr: addr}, nil
}

func NewRedisBus(log *logger.Logger, cfg Config) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	opts, err := redisOptions(addr)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = redisDialTimeout

	ch := strings.TrimSpace(cfg.RedisChannel)
	if ch == "" {
		ch = defaultRedisChannel
	}

	rdb := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("realtime bus using redis", "addr", opts.Addr, "channel", ch)
	return &redisBus{
		log:     log.With("service", "RedisBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	env := envelope{Channel: msg.Channel, Event: msg.Event}
	if msg.Data != nil {
		data, err := json.Marshal(msg.Data)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", msg.Event, err)
		}
		env.Data = data
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes before returning, so nothing published after
// it returns is missed. Delivery continues until ctx is done.
func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		msgs := sub.Channel(goredis.WithChannelSize(forwardBuffer))
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.log.Warn("bad redis bus payload", "error", err)
					continue
				}
				out := realtime.SSEMessage{Channel: env.Channel, Event: env.Event}
				if len(env.Data) > 0 {
					out.Data = env.Data
				}
				onMsg(out)
			}
		}
	}()
	return nil
}

func (b *redisBus) Close() error {
	return b.rdb.Close()
}
