// Package handoff moves one quiz at a time from the history view to the
// quiz session. The slot holds at most one value; the consumer receives it
// once and must acknowledge it before another value can be offered.
package handoff

import (
	"sync"

	"github.com/google/uuid"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

type Delivery struct {
	ID   uuid.UUID
	Quiz quiz.Quiz
}

type Channel struct {
	log *logger.Logger

	mu        sync.Mutex
	accepting bool
	pending   *Delivery
	delivered bool
	ready     chan struct{}
}

func NewChannel(log *logger.Logger) *Channel {
	return &Channel{
		log:   log.With("component", "HandoffChannel"),
		ready: make(chan struct{}, 1),
	}
}

// Open marks the consumer as able to accept values.
func (c *Channel) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accepting = true
}

// Close marks the consumer as gone. A value still in the slot is dropped.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accepting = false
	if c.pending != nil {
		c.log.Warn("dropping unconsumed handoff", "delivery_id", c.pending.ID)
	}
	c.pending = nil
	c.delivered = false
}

// Offer places q in the slot. It returns false, and drops q, when no
// consumer is open or a previous value has not been acknowledged yet.
func (c *Channel) Offer(q quiz.Quiz) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.accepting {
		c.log.Warn("handoff dropped: no consumer", "quiz_id", q.ID)
		return false
	}
	if c.pending != nil {
		c.log.Warn("handoff dropped: slot occupied", "quiz_id", q.ID, "pending_id", c.pending.ID)
		return false
	}
	c.pending = &Delivery{ID: uuid.New(), Quiz: q.Clone()}
	c.delivered = false
	select {
	case c.ready <- struct{}{}:
	default:
	}
	return true
}

// Ready fires after a successful Offer.
func (c *Channel) Ready() <-chan struct{} { return c.ready }

// Receive hands out the pending value. Each value is handed out once.
func (c *Channel) Receive() (Delivery, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil || c.delivered {
		return Delivery{}, false
	}
	c.delivered = true
	return *c.pending, true
}

// Ack clears the slot if it still holds d.
func (c *Channel) Ack(d Delivery) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil || c.pending.ID != d.ID {
		return false
	}
	c.pending = nil
	c.delivered = false
	return true
}

// Pending reports whether a value sits in the slot.
func (c *Channel) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Accepting reports whether a consumer is open.
func (c *Channel) Accepting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accepting
}
