package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xurxxo/termfolio/internal/email"
)

// secondaryTimeout bounds a detached fan-out, retries included.
const secondaryTimeout = 30 * time.Second

// Notifier forwards a contact message to the site owner.
type Notifier interface {
	SendContactMessage(ctx context.Context, msg email.ContactMessage) error
}

// Multi delivers through a primary notifier whose result decides the
// outcome, and fans out to secondary notifiers in the background. Secondary
// failures are only logged.
type Multi struct {
	primary   Notifier
	secondary []Notifier
	wg        sync.WaitGroup
}

func NewMulti(primary Notifier, secondary ...Notifier) *Multi {
	return &Multi{primary: primary, secondary: secondary}
}

// SendContactMessage returns as soon as the primary notifier answers. The
// secondaries run detached from ctx so a finished request does not cancel
// them.
func (m *Multi) SendContactMessage(ctx context.Context, msg email.ContactMessage) error {
	if err := m.primary.SendContactMessage(ctx, msg); err != nil {
		return err
	}
	if len(m.secondary) == 0 {
		return nil
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), secondaryTimeout)
		defer cancel()
		for _, n := range m.secondary {
			if err := n.SendContactMessage(ctx, msg); err != nil {
				slog.Error("multi-notifier: secondary notification failed", "id", msg.ID, "error", err)
			}
		}
	}()
	return nil
}

// Wait blocks until every background fan-out has finished or ctx is done.
func (m *Multi) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
