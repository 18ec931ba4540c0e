package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xurxxo/termfolio/internal/contact"
	"github.com/xurxxo/termfolio/internal/sequence"
	"github.com/xurxxo/termfolio/internal/unzip"
)

var (
	_ contact.Terminal = (*Bridge)(nil)
	_ unzip.Terminal   = (*Bridge)(nil)
	_ contact.Form     = formView{}
	_ contact.Response = responseView{}
	_ unzip.Content    = contentView{}
)

type appendLineMsg struct{ line sequence.Line }

type setLineMsg struct {
	index int
	text  string
}

type scrollMsg struct{}

type formMsg struct{ visible bool }

type responseMsg struct {
	kind  contact.ResponseKind
	lines []sequence.Line
}

type revealMsg struct{}

// Bridge turns player calls, made from the playback goroutine, into
// messages for the running program.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
	next int
}

// NewBridge wraps send, usually (*tea.Program).Send.
func NewBridge(send func(tea.Msg)) *Bridge {
	return &Bridge{send: send}
}

func (b *Bridge) AppendLine(line sequence.Line) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	index := b.next
	b.next++
	b.send(appendLineMsg{line: line})
	return index
}

func (b *Bridge) SetLine(index int, text string) {
	b.send(setLineMsg{index: index, text: text})
}

func (b *Bridge) ScrollToBottom() {
	b.send(scrollMsg{})
}

func (b *Bridge) Form() contact.Form {
	return formView{send: b.send}
}

func (b *Bridge) Response() contact.Response {
	return responseView{send: b.send}
}

func (b *Bridge) Content() unzip.Content {
	return contentView{send: b.send}
}

type formView struct{ send func(tea.Msg) }

func (f formView) Show() { f.send(formMsg{visible: true}) }
func (f formView) Hide() { f.send(formMsg{visible: false}) }

type responseView struct{ send func(tea.Msg) }

func (r responseView) Show(kind contact.ResponseKind, lines []sequence.Line) {
	r.send(responseMsg{kind: kind, lines: lines})
}

type contentView struct{ send func(tea.Msg) }

func (c contentView) Reveal() { c.send(revealMsg{}) }
