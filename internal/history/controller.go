// Package history keeps the list of previously generated quizzes and the
// detail view of one of them, and passes a chosen quiz on for reattempt.
package history

import (
	"context"
	"sync"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
)

// Fetcher is the read side of the quiz API.
type Fetcher interface {
	ListHistory(ctx context.Context) ([]quiz.Summary, error)
	GetHistory(ctx context.Context, id quiz.ID) (quiz.Quiz, error)
}

// Producer accepts a quiz for the session, or refuses it.
type Producer interface {
	Offer(q quiz.Quiz) bool
}

type Controller struct {
	log *logger.Logger
	api Fetcher
	out Producer
	pub *realtime.Publisher[Snapshot]

	mu          sync.Mutex
	version     uint64
	listToken   uint64
	detailToken uint64
	listLoading bool
	summaries   []quiz.Summary
	detail      detail
}

func NewController(log *logger.Logger, api Fetcher, out Producer, onChange func(Snapshot)) *Controller {
	return &Controller{
		log:    log.With("component", "HistoryController"),
		api:    api,
		out:    out,
		pub:    realtime.NewPublisher(Snapshot.version, onChange),
		detail: idleDetail(),
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Version:     c.version,
		ListLoading: c.listLoading,
		Summaries:   summaryViews(c.summaries),
		Detail:      c.detail.state(),
	}
}

func (c *Controller) commitLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) publish(s Snapshot) {
	c.pub.Publish(s)
}

// LoadSummaries fetches the history list. A failure leaves the list empty
// rather than putting the view into an error state; the error is still
// returned for the caller to log.
func (c *Controller) LoadSummaries(ctx context.Context) error {
	c.mu.Lock()
	c.listToken++
	tok := c.listToken
	c.listLoading = true
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)

	items, err := c.api.ListHistory(ctx)

	c.mu.Lock()
	if tok != c.listToken {
		c.mu.Unlock()
		return ErrStale
	}
	c.listLoading = false
	if err != nil {
		c.summaries = nil
		c.log.Warn("history list unavailable, showing empty list", "error", err)
	} else {
		c.summaries = items
	}
	snap = c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)
	return err
}

// OpenDetail shows id in the detail view and fetches it. The previous
// detail is cleared before the fetch starts. The response is applied only
// if id is still the most recently opened item.
func (c *Controller) OpenDetail(ctx context.Context, id quiz.ID) error {
	r, err := c.BeginOpenDetail(id)
	if err != nil {
		return err
	}
	return r.Await(ctx)
}

// DetailRequest is an opened detail view waiting for its quiz.
type DetailRequest struct {
	c   *Controller
	tok uint64
	id  quiz.ID
}

// BeginOpenDetail switches the detail view to id in Loading state. The
// caller must then run Await.
func (c *Controller) BeginOpenDetail(id quiz.ID) (*DetailRequest, error) {
	if id.IsZero() {
		return nil, ErrInvalidID
	}
	c.mu.Lock()
	c.detailToken++
	tok := c.detailToken
	c.detail = idleDetail()
	c.detail.requestedID = id
	c.detail.phase = PhaseLoading
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)
	return &DetailRequest{c: c, tok: tok, id: id}, nil
}

func (r *DetailRequest) Await(ctx context.Context) error {
	q, err := r.c.api.GetHistory(ctx, r.id)
	return r.finish(q, err)
}

// Abandon fails a detail request that will never be awaited, so the view
// does not stay in Loading. It is a no-op if the request is already stale.
func (r *DetailRequest) Abandon(cause error) error {
	if cause == nil {
		cause = ErrStale
	}
	return r.finish(quiz.Quiz{}, cause)
}

func (r *DetailRequest) finish(q quiz.Quiz, err error) error {
	c := r.c
	c.mu.Lock()
	if r.tok != c.detailToken || c.detail.requestedID != r.id {
		c.mu.Unlock()
		c.log.Debug("discarding stale history detail", "quiz_id", r.id, "error", err)
		return ErrStale
	}
	if err != nil {
		c.detail.phase = PhaseError
		c.detail.errMsg = detailFailedMessage
		c.detail.quiz = nil
		snap := c.commitLocked()
		c.mu.Unlock()
		c.log.Warn("history detail fetch failed", "quiz_id", r.id, "error", err)
		c.publish(snap)
		return err
	}
	if q.ID.IsZero() {
		q.ID = r.id
	}
	c.detail.phase = PhaseLoaded
	c.detail.quiz = &q
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// CloseDetail dismisses the detail view. A fetch still in flight for it
// will be ignored when it completes.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	snap := c.closeDetailLocked()
	c.mu.Unlock()
	c.publish(snap)
}

func (c *Controller) closeDetailLocked() Snapshot {
	c.detailToken++
	c.detail = idleDetail()
	return c.commitLocked()
}

// ToggleExplanation flips the explanation of the detail question with the
// given key (see quiz.Question.Key).
func (c *Controller) ToggleExplanation(key string) error {
	c.mu.Lock()
	if c.detail.phase != PhaseLoaded || c.detail.quiz == nil {
		c.mu.Unlock()
		return ErrDetailNotLoaded
	}
	found := false
	for i, q := range c.detail.quiz.Questions {
		if q.Key(i) == key {
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return ErrQuestionKey
	}
	c.detail.explanation[key] = !c.detail.explanation[key]
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// HandOffToSession passes the loaded detail to the quiz session and closes
// the detail view. The view is closed even when the session refuses it,
// unless another item was opened while the offer was being made.
func (c *Controller) HandOffToSession() error {
	c.mu.Lock()
	if c.detail.phase != PhaseLoaded || c.detail.quiz == nil {
		c.mu.Unlock()
		return ErrDetailNotLoaded
	}
	q := c.detail.quiz.Clone()
	tok := c.detailToken
	c.mu.Unlock()

	accepted := c.out.Offer(q)

	c.mu.Lock()
	if tok == c.detailToken {
		snap := c.closeDetailLocked()
		c.mu.Unlock()
		c.publish(snap)
	} else {
		c.mu.Unlock()
		c.log.Debug("detail view changed during handoff, leaving it open", "quiz_id", q.ID)
	}
	if !accepted {
		return ErrHandoffDropped
	}
	c.log.Info("quiz handed off for reattempt", "quiz_id", q.ID)
	return nil
}
