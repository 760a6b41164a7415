// Package session drives a single quiz attempt: generating or adopting a
// quiz, collecting answers, scoring, and resetting for another attempt.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/handoff"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/realtime"
)

// Generator is the part of the quiz API the session needs.
type Generator interface {
	Generate(ctx context.Context, documentURL string) (quiz.Quiz, error)
}

type Controller struct {
	log  *logger.Logger
	api  Generator
	msgs quiz.Messages
	pub  *realtime.Publisher[Snapshot]

	mu      sync.Mutex
	token   uint64
	version uint64
	st      state
}

// NewController returns an idle session. onChange, when set, receives a
// snapshot after state changes, in version order and without the lock held.
// Snapshots superseded while an earlier one is being delivered are skipped.
func NewController(log *logger.Logger, api Generator, msgs quiz.Messages, onChange func(Snapshot)) *Controller {
	return &Controller{
		log:  log.With("component", "SessionController"),
		api:  api,
		msgs: msgs,
		pub:  realtime.NewPublisher(Snapshot.version, onChange),
		st:   freshState(PhaseIdle, nil),
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.snapshot(c.version, c.msgs)
}

// commitLocked bumps the version and returns the snapshot to publish once
// the lock is released.
func (c *Controller) commitLocked() Snapshot {
	c.version++
	return c.st.snapshot(c.version, c.msgs)
}

func (c *Controller) publish(s Snapshot) {
	c.pub.Publish(s)
}

// SubmitGenerationRequest asks the quiz API for a quiz built from
// documentURL and blocks until the answer arrives. The session shows
// Loading meanwhile. If a handoff lands before the answer, the answer is
// discarded and ErrSuperseded is returned.
func (c *Controller) SubmitGenerationRequest(ctx context.Context, documentURL string) error {
	g, err := c.BeginGeneration(documentURL)
	if err != nil {
		return err
	}
	return g.Await(ctx)
}

// Generation is a generation request that has moved the session to Loading
// and still has to call the quiz API.
type Generation struct {
	c   *Controller
	tok uint64
	url string
}

// BeginGeneration clears the session and moves it to Loading. The caller
// must then run Await, usually on another goroutine.
func (c *Controller) BeginGeneration(documentURL string) (*Generation, error) {
	documentURL = strings.TrimSpace(documentURL)
	if documentURL == "" {
		return nil, ErrInvalidURL
	}

	c.mu.Lock()
	if c.st.phase == PhaseLoading {
		c.mu.Unlock()
		return nil, ErrGenerationPending
	}
	c.token++
	tok := c.token
	c.st = freshState(PhaseLoading, nil)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)

	c.log.Debug("generation requested", "url", documentURL, "request", tok)
	return &Generation{c: c, tok: tok, url: documentURL}, nil
}

// Await calls the quiz API and applies the outcome unless a newer request
// or a handoff has replaced the session in the meantime.
func (g *Generation) Await(ctx context.Context) error {
	q, err := g.c.api.Generate(ctx, g.url)
	return g.finish(q, err)
}

// Abandon fails a generation that will never be awaited, so the session
// does not stay in Loading. It is a no-op if the request is already stale.
func (g *Generation) Abandon(cause error) error {
	if cause == nil {
		cause = ErrSuperseded
	}
	return g.finish(quiz.Quiz{}, cause)
}

func (g *Generation) finish(q quiz.Quiz, err error) error {
	c := g.c
	c.mu.Lock()
	if g.tok != c.token || c.st.phase != PhaseLoading {
		c.mu.Unlock()
		c.log.Debug("discarding stale generation result", "request", g.tok, "error", err)
		return ErrSuperseded
	}
	if err != nil {
		c.st = freshState(PhaseError, nil)
		c.st.errMsg = generationFailedMessage
		snap := c.commitLocked()
		c.mu.Unlock()
		c.log.Warn("quiz generation failed", "url", g.url, "error", err)
		c.publish(snap)
		return err
	}
	q.ID = ""
	c.st = freshState(PhaseLoaded, &q)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.log.Info("quiz generated", "url", g.url, "title", q.Title, "questions", len(q.Questions), "empty", q.Empty())
	c.publish(snap)
	return nil
}

// LoadFromHandoff adopts q as a fresh attempt, whatever the session was
// doing. A generation still in flight becomes stale.
func (c *Controller) LoadFromHandoff(q quiz.Quiz) {
	cp := q.Clone()
	c.mu.Lock()
	c.token++
	c.st = freshState(PhaseLoaded, &cp)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.log.Info("quiz adopted from history", "quiz_id", cp.ID, "questions", len(cp.Questions))
	c.publish(snap)
}

// Run consumes handoffs until ctx is done. Each received quiz is adopted
// and then acknowledged so the producer's slot frees up.
func (c *Controller) Run(ctx context.Context, ch *handoff.Channel) error {
	ch.Open()
	defer ch.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ch.Ready():
			d, ok := ch.Receive()
			if !ok {
				continue
			}
			c.LoadFromHandoff(d.Quiz)
			ch.Ack(d)
		}
	}
}

// answerableLocked checks that a quiz is on screen and i addresses one of
// its questions.
func (c *Controller) answerableLocked(i int) error {
	if c.st.phase != PhaseLoaded || c.st.quiz == nil {
		return ErrNoQuiz
	}
	if i < 0 || i >= c.st.questionCount() {
		return ErrQuestionIndex
	}
	return nil
}

// SelectAnswer records option for question i, replacing any earlier choice.
// The option is not checked against the question's options.
func (c *Controller) SelectAnswer(i int, option string) error {
	c.mu.Lock()
	if c.st.submitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	if err := c.answerableLocked(i); err != nil {
		c.mu.Unlock()
		return err
	}
	c.st.selected[i] = option
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

func (c *Controller) ToggleExplanation(i int) error {
	c.mu.Lock()
	if err := c.answerableLocked(i); err != nil {
		c.mu.Unlock()
		return err
	}
	c.st.explanation[i] = !c.st.explanation[i]
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// SubmitQuiz scores the current answers.
func (c *Controller) SubmitQuiz() error {
	c.mu.Lock()
	if c.st.phase != PhaseLoaded || c.st.quiz == nil {
		c.mu.Unlock()
		return ErrNoQuiz
	}
	if c.st.submitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	score, ok := quiz.Score(c.st.quiz.Questions, c.st.selected)
	if !ok {
		c.mu.Unlock()
		return ErrNoQuestions
	}
	c.st.submitted = true
	c.st.score = &score
	snap := c.commitLocked()
	c.mu.Unlock()
	c.log.Info("quiz submitted", "score", score, "tier", snap.Tier)
	c.publish(snap)
	return nil
}

// Reattempt clears answers, explanations and the score of a submitted quiz.
// The quiz itself is kept and not fetched again.
func (c *Controller) Reattempt() error {
	c.mu.Lock()
	if !c.st.submitted {
		c.mu.Unlock()
		return ErrNotSubmitted
	}
	c.st = freshState(PhaseLoaded, c.st.quiz)
	snap := c.commitLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// Review lists the outcome of every question of a submitted quiz.
func (c *Controller) Review() ([]quiz.QuestionReview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.st.submitted || c.st.quiz == nil {
		return nil, ErrNotSubmitted
	}
	return quiz.Review(c.st.quiz.Questions, c.st.selected), nil
}
