package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/domain/quiz"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

type listReply struct {
	items []quiz.Summary
	err   error
}

type detailReply struct {
	q   quiz.Quiz
	err error
}

type detailCall struct {
	id    quiz.ID
	reply chan detailReply
}

// fakeFetcher parks every call until the test replies to it.
type fakeFetcher struct {
	lists   chan chan listReply
	details chan detailCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		lists:   make(chan chan listReply, 4),
		details: make(chan detailCall, 8),
	}
}

func (f *fakeFetcher) ListHistory(ctx context.Context) ([]quiz.Summary, error) {
	reply := make(chan listReply, 1)
	f.lists <- reply
	select {
	case r := <-reply:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeFetcher) GetHistory(ctx context.Context, id quiz.ID) (quiz.Quiz, error) {
	call := detailCall{id: id, reply: make(chan detailReply, 1)}
	f.details <- call
	select {
	case r := <-call.reply:
		return r.q, r.err
	case <-ctx.Done():
		return quiz.Quiz{}, ctx.Err()
	}
}

func (f *fakeFetcher) nextList(t *testing.T) chan listReply {
	t.Helper()
	select {
	case r := <-f.lists:
		return r
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for ListHistory call")
	}
	return nil
}

func (f *fakeFetcher) nextDetail(t *testing.T) detailCall {
	t.Helper()
	select {
	case c := <-f.details:
		return c
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for GetHistory call")
	}
	return detailCall{}
}

type fakeProducer struct {
	mu     sync.Mutex
	accept bool
	offers []quiz.Quiz
}

func (p *fakeProducer) Offer(q quiz.Quiz) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offers = append(p.offers, q)
	return p.accept
}

func runAsync(fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn(context.Background()) }()
	return done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for request")
	}
	return nil
}

func detailQuiz(id quiz.ID, title string) quiz.Quiz {
	return quiz.Quiz{
		ID:    id,
		Title: title,
		Questions: []quiz.Question{
			{ID: "q-a", Question: "first", Options: []string{"A", "B"}, Answer: "A", Explanation: "because"},
			{Question: "second", Options: []string{"A", "B"}, Answer: "B"},
		},
	}
}

func openLoaded(t *testing.T, c *Controller, f *fakeFetcher, id quiz.ID) {
	t.Helper()
	r, err := c.BeginOpenDetail(id)
	if err != nil {
		t.Fatalf("BeginOpenDetail: %v", err)
	}
	done := runAsync(r.Await)
	f.nextDetail(t).reply <- detailReply{q: detailQuiz(id, "quiz "+id.String())}
	if err := waitErr(t, done); err != nil {
		t.Fatalf("Await: %v", err)
	}
}

func TestLoadSummaries(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	done := runAsync(c.LoadSummaries)
	reply := f.nextList(t)
	if !c.Snapshot().ListLoading {
		t.Fatalf("list should be loading while the request is out")
	}
	created := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	reply <- listReply{items: []quiz.Summary{{
		ID:        "3",
		Title:     "Alan Turing",
		URL:       "https://en.wikipedia.org/wiki/Alan_Turing",
		CreatedAt: quiz.NewTimestamp(created),
	}}}
	if err := waitErr(t, done); err != nil {
		t.Fatalf("LoadSummaries: %v", err)
	}

	snap := c.Snapshot()
	if snap.ListLoading || len(snap.Summaries) != 1 {
		t.Fatalf("want one summary, got %+v", snap)
	}
	row := snap.Summaries[0]
	if row.ShortURL != "Alan_Turing" || row.Generated != "Oct 18, 2026" {
		t.Fatalf("display strings: short=%q generated=%q", row.ShortURL, row.Generated)
	}
}

func TestLoadSummariesFailureLeavesEmptyList(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	done := runAsync(c.LoadSummaries)
	upstream := errors.New("down")
	f.nextList(t) <- listReply{err: upstream}
	if err := waitErr(t, done); !errors.Is(err, upstream) {
		t.Fatalf("want=%v got=%v", upstream, err)
	}
	snap := c.Snapshot()
	if snap.ListLoading || len(snap.Summaries) != 0 {
		t.Fatalf("want empty, settled list, got %+v", snap)
	}
	if snap.Detail.Phase != PhaseIdle || snap.Detail.ErrorMessage != "" {
		t.Fatalf("list failure must not surface as a detail error, got %+v", snap.Detail)
	}
}

func TestOpenDetailSuccess(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	r, err := c.BeginOpenDetail("4")
	if err != nil {
		t.Fatalf("BeginOpenDetail: %v", err)
	}
	snap := c.Snapshot()
	if snap.Detail.RequestedID != "4" || snap.Detail.Phase != PhaseLoading || snap.Detail.Detail != nil {
		t.Fatalf("want loading detail for 4, got %+v", snap.Detail)
	}

	done := runAsync(r.Await)
	call := f.nextDetail(t)
	if call.id != "4" {
		t.Fatalf("detail id: want=4 got=%s", call.id)
	}
	call.reply <- detailReply{q: detailQuiz("4", "Turing")}
	if err := waitErr(t, done); err != nil {
		t.Fatalf("Await: %v", err)
	}

	snap = c.Snapshot()
	if snap.Detail.Phase != PhaseLoaded || snap.Detail.Detail == nil || snap.Detail.Detail.Title != "Turing" {
		t.Fatalf("want loaded detail, got %+v", snap.Detail)
	}
}

func TestOpenDetailFailure(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	done := runAsync(func(ctx context.Context) error { return c.OpenDetail(ctx, "4") })
	upstream := errors.New("404")
	f.nextDetail(t).reply <- detailReply{err: upstream}
	if err := waitErr(t, done); !errors.Is(err, upstream) {
		t.Fatalf("want=%v got=%v", upstream, err)
	}
	d := c.Snapshot().Detail
	if d.Phase != PhaseError || d.ErrorMessage != detailFailedMessage || d.Detail != nil || d.RequestedID != "4" {
		t.Fatalf("want error detail, got %+v", d)
	}
}

func TestOpenDetailRejectsEmptyID(t *testing.T) {
	c := NewController(mustTestLogger(t), newFakeFetcher(), &fakeProducer{}, nil)
	if _, err := c.BeginOpenDetail(""); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("want=%v got=%v", ErrInvalidID, err)
	}
}

func TestLastOpenedDetailWins(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	ra, _ := c.BeginOpenDetail("A")
	doneA := runAsync(ra.Await)
	callA := f.nextDetail(t)

	rb, _ := c.BeginOpenDetail("B")
	doneB := runAsync(rb.Await)
	callB := f.nextDetail(t)

	callB.reply <- detailReply{q: detailQuiz("B", "quiz B")}
	if err := waitErr(t, doneB); err != nil {
		t.Fatalf("B: %v", err)
	}
	callA.reply <- detailReply{q: detailQuiz("A", "quiz A")}
	if err := waitErr(t, doneA); !errors.Is(err, ErrStale) {
		t.Fatalf("A: want=%v got=%v", ErrStale, err)
	}

	d := c.Snapshot().Detail
	if d.RequestedID != "B" || d.Detail == nil || d.Detail.Title != "quiz B" {
		t.Fatalf("want detail B, got %+v", d)
	}
}

func TestLateFailureOfSupersededDetailIgnored(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	ra, _ := c.BeginOpenDetail("A")
	doneA := runAsync(ra.Await)
	callA := f.nextDetail(t)
	openLoaded(t, c, f, "B")

	callA.reply <- detailReply{err: errors.New("slow failure")}
	if err := waitErr(t, doneA); !errors.Is(err, ErrStale) {
		t.Fatalf("A: want=%v got=%v", ErrStale, err)
	}
	if d := c.Snapshot().Detail; d.Phase != PhaseLoaded || d.ErrorMessage != "" {
		t.Fatalf("stale failure leaked into detail: %+v", d)
	}
}

func TestCloseDetailDiscardsLateResponse(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	r, _ := c.BeginOpenDetail("A")
	done := runAsync(r.Await)
	call := f.nextDetail(t)

	c.CloseDetail()
	call.reply <- detailReply{q: detailQuiz("A", "late")}
	if err := waitErr(t, done); !errors.Is(err, ErrStale) {
		t.Fatalf("want=%v got=%v", ErrStale, err)
	}
	d := c.Snapshot().Detail
	if d.Phase != PhaseIdle || !d.RequestedID.IsZero() || d.Detail != nil {
		t.Fatalf("closed detail should stay idle, got %+v", d)
	}
}

func TestReopeningSameIDSupersedesEarlierRequest(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	r1, _ := c.BeginOpenDetail("A")
	done1 := runAsync(r1.Await)
	call1 := f.nextDetail(t)
	r2, _ := c.BeginOpenDetail("A")
	done2 := runAsync(r2.Await)
	call2 := f.nextDetail(t)

	call1.reply <- detailReply{q: detailQuiz("A", "first")}
	if err := waitErr(t, done1); !errors.Is(err, ErrStale) {
		t.Fatalf("first: want=%v got=%v", ErrStale, err)
	}
	if d := c.Snapshot().Detail; d.Phase != PhaseLoading {
		t.Fatalf("stale response should not settle the view, got %s", d.Phase)
	}
	call2.reply <- detailReply{q: detailQuiz("A", "second")}
	if err := waitErr(t, done2); err != nil {
		t.Fatalf("second: %v", err)
	}
	if d := c.Snapshot().Detail; d.Detail == nil || d.Detail.Title != "second" {
		t.Fatalf("want second response, got %+v", d)
	}
}

func TestToggleExplanationByKey(t *testing.T) {
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, nil)

	if err := c.ToggleExplanation("q-a"); !errors.Is(err, ErrDetailNotLoaded) {
		t.Fatalf("toggle without detail: want=%v got=%v", ErrDetailNotLoaded, err)
	}
	openLoaded(t, c, f, "A")

	if err := c.ToggleExplanation("q-a"); err != nil {
		t.Fatalf("toggle by id: %v", err)
	}
	if err := c.ToggleExplanation("1"); err != nil {
		t.Fatalf("toggle by index fallback: %v", err)
	}
	if err := c.ToggleExplanation("0"); !errors.Is(err, ErrQuestionKey) {
		t.Fatalf("question with an id is not keyed by index: want=%v got=%v", ErrQuestionKey, err)
	}
	vis := c.Snapshot().Detail.ExplanationVisible
	if !vis["q-a"] || !vis["1"] {
		t.Fatalf("unexpected explanation toggles: %v", vis)
	}

	openLoaded(t, c, f, "B")
	if n := len(c.Snapshot().Detail.ExplanationVisible); n != 0 {
		t.Fatalf("opening a detail should reset toggles, got %d", n)
	}
}

func TestHandOffToSession(t *testing.T) {
	f := newFakeFetcher()
	p := &fakeProducer{accept: true}
	c := NewController(mustTestLogger(t), f, p, nil)

	if err := c.HandOffToSession(); !errors.Is(err, ErrDetailNotLoaded) {
		t.Fatalf("handoff without detail: want=%v got=%v", ErrDetailNotLoaded, err)
	}

	openLoaded(t, c, f, "A")
	if err := c.HandOffToSession(); err != nil {
		t.Fatalf("HandOffToSession: %v", err)
	}
	if len(p.offers) != 1 || p.offers[0].ID != "A" || len(p.offers[0].Questions) != 2 {
		t.Fatalf("unexpected offers: %+v", p.offers)
	}
	if d := c.Snapshot().Detail; d.Phase != PhaseIdle || d.Detail != nil {
		t.Fatalf("handoff should close the detail view, got %+v", d)
	}
}

func TestHandOffDroppedStillClosesView(t *testing.T) {
	f := newFakeFetcher()
	p := &fakeProducer{accept: false}
	c := NewController(mustTestLogger(t), f, p, nil)

	openLoaded(t, c, f, "A")
	if err := c.HandOffToSession(); !errors.Is(err, ErrHandoffDropped) {
		t.Fatalf("want=%v got=%v", ErrHandoffDropped, err)
	}
	if d := c.Snapshot().Detail; d.Phase != PhaseIdle {
		t.Fatalf("view should close even when the handoff is dropped, got %s", d.Phase)
	}
}

func TestHandOffRequiresLoadedDetail(t *testing.T) {
	f := newFakeFetcher()
	p := &fakeProducer{accept: true}
	c := NewController(mustTestLogger(t), f, p, nil)

	r, _ := c.BeginOpenDetail("A")
	if err := c.HandOffToSession(); !errors.Is(err, ErrDetailNotLoaded) {
		t.Fatalf("handoff while loading: want=%v got=%v", ErrDetailNotLoaded, err)
	}
	done := runAsync(r.Await)
	f.nextDetail(t).reply <- detailReply{err: errors.New("boom")}
	_ = waitErr(t, done)
	if err := c.HandOffToSession(); !errors.Is(err, ErrDetailNotLoaded) {
		t.Fatalf("handoff after failure: want=%v got=%v", ErrDetailNotLoaded, err)
	}
	if len(p.offers) != 0 {
		t.Fatalf("nothing should have been offered, got %d", len(p.offers))
	}
}

// reopeningProducer opens another item while the offer is in progress,
// as a second request would.
type reopeningProducer struct {
	c      *Controller
	next   quiz.ID
	opened *DetailRequest
}

func (p *reopeningProducer) Offer(q quiz.Quiz) bool {
	r, err := p.c.BeginOpenDetail(p.next)
	if err == nil {
		p.opened = r
	}
	return true
}

func TestHandOffKeepsDetailOpenedMeanwhile(t *testing.T) {
	f := newFakeFetcher()
	p := &reopeningProducer{next: "B"}
	c := NewController(mustTestLogger(t), f, p, nil)
	p.c = c

	openLoaded(t, c, f, "A")
	if err := c.HandOffToSession(); err != nil {
		t.Fatalf("HandOffToSession: %v", err)
	}
	d := c.Snapshot().Detail
	if d.RequestedID != "B" || d.Phase != PhaseLoading {
		t.Fatalf("detail for B should stay open, got requested=%q phase=%s", d.RequestedID, d.Phase)
	}

	done := runAsync(p.opened.Await)
	f.nextDetail(t).reply <- detailReply{q: detailQuiz("B", "quiz B")}
	if err := waitErr(t, done); err != nil {
		t.Fatalf("Await for B: %v", err)
	}
	if d := c.Snapshot().Detail; d.Phase != PhaseLoaded || d.Detail == nil || d.Detail.ID != "B" {
		t.Fatalf("B should load after the handoff of A, got %+v", d)
	}
}

func TestAbandonedDetailRequest(t *testing.T) {
	c := NewController(mustTestLogger(t), newFakeFetcher(), &fakeProducer{}, nil)

	r, err := c.BeginOpenDetail("A")
	if err != nil {
		t.Fatalf("BeginOpenDetail: %v", err)
	}
	cause := errors.New("worker stopped")
	if err := r.Abandon(cause); !errors.Is(err, cause) {
		t.Fatalf("Abandon: want=%v got=%v", cause, err)
	}
	if d := c.Snapshot().Detail; d.Phase != PhaseError || d.RequestedID != "A" {
		t.Fatalf("want error for A, got requested=%q phase=%s", d.RequestedID, d.Phase)
	}

	stale, _ := c.BeginOpenDetail("B")
	c.CloseDetail()
	if err := stale.Abandon(cause); !errors.Is(err, ErrStale) {
		t.Fatalf("abandon after close: want=%v got=%v", ErrStale, err)
	}
	if d := c.Snapshot().Detail; d.Phase != PhaseIdle {
		t.Fatalf("closed view should stay idle, got %s", d.Phase)
	}
}

func TestPublishedSnapshotsStayOrdered(t *testing.T) {
	var (
		mu        sync.Mutex
		published []Snapshot
		entered   = make(chan struct{})
		release   = make(chan struct{})
		once      sync.Once
	)
	f := newFakeFetcher()
	c := NewController(mustTestLogger(t), f, &fakeProducer{}, func(s Snapshot) {
		if s.Detail.RequestedID == "A" {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
		mu.Lock()
		published = append(published, s)
		mu.Unlock()
	})

	begun := make(chan error, 1)
	go func() {
		_, err := c.BeginOpenDetail("A")
		begun <- err
	}()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatalf("open of A was never published")
	}
	c.CloseDetail()
	close(release)
	if err := waitErr(t, begun); err != nil {
		t.Fatalf("BeginOpenDetail: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	last := published[len(published)-1]
	if last.Detail.Phase != PhaseIdle || last.Version != c.Snapshot().Version {
		t.Fatalf("last published should be the closed view, got phase=%s v%d", last.Detail.Phase, last.Version)
	}
}
