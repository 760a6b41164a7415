// Package worker runs controller operations that wait on the quiz API in
// the background, so HTTP handlers can answer right away.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/ctxutil"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

var ErrStopped = errors.New("worker stopped")

// Task is one background operation.
type Task func(ctx context.Context) error

type Worker struct {
	log *logger.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
	// expected reports errors that are part of normal operation (stale or
	// superseded results); they are logged at debug level.
	expected func(error) bool
}

func NewWorker(baseLog *logger.Logger, expected func(error) bool) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		log:      baseLog.With("component", "TaskWorker"),
		ctx:      ctx,
		cancel:   cancel,
		expected: expected,
	}
}

// Submit starts task on its own goroutine. The task's context keeps the
// trace data of reqCtx but lives until the worker stops.
func (w *Worker) Submit(reqCtx context.Context, name string, task Task) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	ctx, cancel := context.WithCancel(ctxutil.Detach(reqCtx))
	stop := context.AfterFunc(w.ctx, cancel)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()
		defer stop()
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()
		if err := task(ctx); err != nil {
			if w.expected != nil && w.expected(err) {
				w.log.Debug("task finished", "task", name, "result", err)
				return
			}
			w.log.Warn("task failed", "task", name, "error", err)
		}
	}()
	return nil
}

// Stop cancels running tasks and waits for them to return.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.cancel()
	w.mu.Unlock()
	w.wg.Wait()
}

// Wait blocks until every submitted task has returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}
