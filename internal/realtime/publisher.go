package realtime

import "sync"

// Publisher delivers versioned snapshots to deliver in increasing version
// order. Publish never waits on another caller's delivery: while one is in
// progress, newer snapshots collapse into the latest and are delivered by
// the goroutine already delivering. Snapshots not newer than the last
// delivered one are dropped.
type Publisher[T any] struct {
	version func(T) uint64
	deliver func(T)

	mu         sync.Mutex
	last       uint64
	pending    *T
	delivering bool
}

// NewPublisher returns a Publisher; a nil deliver makes Publish a no-op.
func NewPublisher[T any](version func(T) uint64, deliver func(T)) *Publisher[T] {
	return &Publisher[T]{version: version, deliver: deliver}
}

func (p *Publisher[T]) Publish(v T) {
	if p == nil || p.deliver == nil {
		return
	}
	ver := p.version(v)

	p.mu.Lock()
	if ver <= p.last || (p.pending != nil && ver <= p.version(*p.pending)) {
		p.mu.Unlock()
		return
	}
	p.pending = &v
	if p.delivering {
		p.mu.Unlock()
		return
	}
	p.delivering = true
	for p.pending != nil {
		next := *p.pending
		p.pending = nil
		p.last = p.version(next)
		p.mu.Unlock()
		p.deliver(next)
		p.mu.Lock()
	}
	p.delivering = false
	p.mu.Unlock()
}
