// Package events runs best-effort side effects detached from the request
// that triggered them. Failures are logged and dropped; nothing here may
// affect the outcome of a committed transaction.
package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const taskTimeout = 30 * time.Second

type Dispatcher struct {
	log     *zap.Logger
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	timeout time.Duration
}

func NewDispatcher(lc fx.Lifecycle, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		log:     log.Named("events"),
		timeout: taskTimeout,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return d.Drain(ctx)
		},
	})
	return d
}

// Go runs fn on its own goroutine with a fresh deadline context. Panics
// are recovered so a bad task cannot take the process down.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("task dropped after shutdown", zap.String("task", name))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("task panicked", zap.String("task", name), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			d.log.Warn("task failed",
				zap.String("task", name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		d.log.Debug("task completed",
			zap.String("task", name),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()
}

// Drain stops accepting tasks and waits for in-flight ones, bounded by
// ctx so shutdown cannot hang on a stuck task.
func (d *Dispatcher) Drain(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.log.Warn("shutdown before all tasks finished")
		return ctx.Err()
	}
}

var Module = fx.Module("events",
	fx.Provide(NewDispatcher),
)
