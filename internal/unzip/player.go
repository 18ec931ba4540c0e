package unzip

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/xurxxo/termfolio/internal/sequence"
)

const (
	TickInterval  = 100 * time.Millisecond
	summaryDelay  = 300 * time.Millisecond
	revealDelay   = 200 * time.Millisecond
	completedText = "✓ Extraction complete"
)

// Terminal is the animation region. AppendLine returns an index that
// SetLine can later rewrite.
type Terminal interface {
	AppendLine(line sequence.Line) int
	SetLine(index int, text string)
}

// Content is the pre-rendered page content hidden behind the animation.
type Content interface {
	Reveal()
}

type Player struct {
	terminal Terminal
	content  Content
	clock    clockwork.Clock
	sample   func() float64
	token    string
	progress Progress
}

type Option func(*Player)

func WithClock(clock clockwork.Clock) Option {
	return func(p *Player) { p.clock = clock }
}

// WithRand replaces the uniform [0,1) source used for progress increments.
func WithRand(sample func() float64) Option {
	return func(p *Player) { p.sample = sample }
}

// New builds a player for the page identified by title and path. Either
// view may be nil, in which case Play does nothing.
func New(terminal Terminal, content Content, title, path string, opts ...Option) *Player {
	p := &Player{
		terminal: terminal,
		content:  content,
		clock:    clockwork.NewRealClock(),
		sample:   rand.Float64,
		token:    SelectVariant(title, path),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) Token() string {
	return p.token
}

// Progress returns the progress state. It is owned by the playback
// goroutine and only safe to read once playback has ended.
func (p *Player) Progress() *Progress {
	return &p.progress
}

// Script returns the transcript played before the progress bar.
func Script(token string) []sequence.Line {
	return []sequence.Line{
		sequence.Command(150*time.Millisecond, "$ ls -la"),
		sequence.Output(100*time.Millisecond, "total 8"),
		sequence.Output(50*time.Millisecond, "drwxr-xr-x 2 user user 4096 Nov  6 10:30 ."),
		sequence.Output(50*time.Millisecond, "drwxr-xr-x 8 user user 4096 Nov  6 10:30 .."),
		sequence.Output(50*time.Millisecond, "-rw-r--r-- 1 user user 2048 Nov  6 10:30 "+token),
		sequence.Blank(200 * time.Millisecond),
		sequence.Command(50*time.Millisecond, "$ tar -xzf "+token),
		sequence.Output(50*time.Millisecond, "Extracting archive..."),
	}
}

// Play runs the transcript, the progress bar and the final reveal. It
// returns nil without doing anything when a view is missing.
func (p *Player) Play(ctx context.Context) *sequence.Handle {
	if p.terminal == nil || p.content == nil {
		slog.Debug("unzip: animation views not found, skipping animation")
		return nil
	}

	slog.Debug("unzip: playing", "token", p.token)
	script := sequence.Script{
		Lines:  Script(p.token),
		Finale: p.finish,
	}
	return sequence.Play(ctx, p.clock, script, func(line sequence.Line) {
		p.terminal.AppendLine(line)
	})
}

func (p *Player) finish(ctx context.Context) {
	if err := p.runProgress(ctx); err != nil {
		return
	}

	if err := sequence.Sleep(ctx, p.clock, summaryDelay); err != nil {
		return
	}
	p.terminal.AppendLine(sequence.Line{Text: completedText, Style: sequence.StyleSuccess})
	p.terminal.AppendLine(sequence.Line{Style: sequence.StyleBlank})
	p.terminal.AppendLine(sequence.Line{Text: "$ cat " + textFile(p.token), Style: sequence.StyleCommand})
	p.terminal.AppendLine(sequence.Line{Style: sequence.StyleBlank})

	if err := sequence.Sleep(ctx, p.clock, revealDelay); err != nil {
		return
	}
	p.content.Reveal()
}

// runProgress ticks the bar until it reaches 100. The ticker is stopped on
// the tick that completes it, before that tick is rendered.
func (p *Player) runProgress(ctx context.Context) error {
	index := p.terminal.AppendLine(sequence.Line{Style: sequence.StyleLoading})

	ticker := p.clock.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}

		done := p.progress.Advance(increment(p.sample()))
		if done {
			ticker.Stop()
		}
		p.terminal.SetLine(index, p.progress.String())
		if done {
			return nil
		}
	}
}
