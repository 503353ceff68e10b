// Package lifecycle coordinates cancellation and cleanup for the pipeline
// commands. Batch jobs derive their context from a Coordinator so an
// interrupt stops the batch between items, and cleanup hooks (label store
// flushes, temp-file removal) run exactly once before exit.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Coordinator manages a cancellable root context and registered cleanup hooks.
type Coordinator struct {
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	cleanup []func()
	done    bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown or signal.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnCleanup registers a function to run during shutdown. Hooks run in
// registration order and at most once.
func (c *Coordinator) OnCleanup(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanup = append(c.cleanup, fn)
}

// NotifySignals cancels the context when SIGINT or SIGTERM arrives.
// The returned stop function releases the signal handler.
func (c *Coordinator) NotifySignals() (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			c.cancel()
		case <-c.ctx.Done():
		}
	}()

	return func() { signal.Stop(sigChan) }
}

// Shutdown cancels the context and runs cleanup hooks, failing if they
// do not complete within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.runCleanup()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

func (c *Coordinator) runCleanup() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	hooks := c.cleanup
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
