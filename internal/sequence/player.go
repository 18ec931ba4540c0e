package sequence

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Script is a finite sequence of lines followed by an optional finale.
// The finale runs once, Linger after the last line was appended, on the
// same goroutine that played the lines.
type Script struct {
	Lines  []Line
	Linger time.Duration
	Finale func(ctx context.Context)
}

// Handle observes and cancels a playing script.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	cursor atomic.Int64
	err    error
}

// Play starts playing script on its own goroutine and returns immediately.
// Lines are appended one at a time: the timer for a line is only armed
// after the previous line was appended, so at most one timer is pending.
func Play(ctx context.Context, clock clockwork.Clock, script Script, appendLine func(Line)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()
		h.err = h.run(ctx, clock, script, appendLine)
	}()

	return h
}

func (h *Handle) run(ctx context.Context, clock clockwork.Clock, script Script, appendLine func(Line)) error {
	for i, line := range script.Lines {
		if err := Sleep(ctx, clock, line.Delay); err != nil {
			return err
		}
		appendLine(line)
		h.cursor.Store(int64(i + 1))
	}

	if script.Finale == nil {
		return nil
	}
	if err := Sleep(ctx, clock, script.Linger); err != nil {
		return err
	}
	script.Finale(ctx)
	return ctx.Err()
}

// Cursor reports how many lines have been appended so far.
func (h *Handle) Cursor() int {
	return int(h.cursor.Load())
}

// Cancel stops playback. Lines already appended stay appended.
func (h *Handle) Cancel() {
	h.cancel()
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until playback ends and returns the context error when it
// was cancelled before the finale completed.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Sleep waits d on clock or returns early with the context error.
func Sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
