package contact

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/xurxxo/termfolio/internal/sequence"
)

// Terminal is the animation region lines are appended to.
type Terminal interface {
	AppendLine(line sequence.Line) int
	ScrollToBottom()
}

// Form is the contact form container.
type Form interface {
	Show()
	Hide()
}

type ResponseKind string

const (
	ResponseSuccess ResponseKind = "success"
	ResponseError   ResponseKind = "error"
)

// Response is the region that displays the outcome of a submission.
type Response interface {
	Show(kind ResponseKind, lines []sequence.Line)
}

// Outcome tells which branch a submission took.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeRejected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeRejected:
		return "rejected"
	default:
		return "failed"
	}
}

var ErrMissingView = errors.New("contact: terminal, form and response views are required")

type Player struct {
	terminal Terminal
	form     Form
	response Response
	sender   Sender
	clock    clockwork.Clock
}

type Option func(*Player)

func WithClock(clock clockwork.Clock) Option {
	return func(p *Player) { p.clock = clock }
}

func New(terminal Terminal, form Form, response Response, sender Sender, opts ...Option) (*Player, error) {
	if terminal == nil || form == nil || response == nil || sender == nil {
		return nil, ErrMissingView
	}
	p := &Player{
		terminal: terminal,
		form:     form,
		response: response,
		sender:   sender,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Play appends the contact transcript and reveals the form once it is done.
func (p *Player) Play(ctx context.Context) *sequence.Handle {
	script := sequence.Script{
		Lines:  transcript,
		Linger: formRevealDelay,
		Finale: func(context.Context) { p.form.Show() },
	}
	return sequence.Play(ctx, p.clock, script, func(line sequence.Line) {
		p.terminal.AppendLine(line)
		p.terminal.ScrollToBottom()
	})
}

// Submit sends payload and renders the result. Concurrent calls are not
// serialized; each renders its own result when it completes.
func (p *Player) Submit(ctx context.Context, payload Payload) Outcome {
	reply, err := p.sender.Send(ctx, payload)
	if err != nil {
		slog.Warn("contact: submission failed", "error", err)
		p.response.Show(ResponseError, []sequence.Line{
			{Text: genericErrorText, Style: sequence.StyleError},
		})
		return OutcomeFailed
	}

	if !reply.Success {
		reason := reply.Message
		if reason == "" {
			reason = unknownReason
		}
		p.response.Show(ResponseError, []sequence.Line{
			{Text: errorPrefix + reason, Style: sequence.StyleError},
		})
		return OutcomeRejected
	}

	p.form.Hide()
	p.response.Show(ResponseSuccess, append([]sequence.Line(nil), successBlock...))
	return OutcomeSent
}
