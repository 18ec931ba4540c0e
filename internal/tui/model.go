package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xurxxo/termfolio/internal/contact"
	"github.com/xurxxo/termfolio/internal/sequence"
)

const formHeight = 9

// SubmitFunc turns a payload into a command that performs the submission.
type SubmitFunc func(contact.Payload) tea.Cmd

// SubmittedMsg reports a finished submission.
type SubmittedMsg struct {
	Outcome contact.Outcome
}

// Model hosts either player. The contact player uses the form and response
// region, the unzip player uses the hidden content.
type Model struct {
	styles   Styles
	viewport viewport.Model
	lines    []sequence.Line

	email        textinput.Model
	message      textarea.Model
	focusMessage bool
	formVisible  bool
	submit       SubmitFunc

	response     []sequence.Line
	responseKind contact.ResponseKind

	content        string
	contentVisible bool

	width  int
	height int
}

type ModelOption func(*Model)

// WithSubmit enables the contact form.
func WithSubmit(submit SubmitFunc) ModelOption {
	return func(m *Model) { m.submit = submit }
}

// WithContent sets the text revealed when the unzip animation finishes.
func WithContent(content string) ModelOption {
	return func(m *Model) { m.content = content }
}

func NewModel(opts ...ModelOption) Model {
	email := textinput.New()
	email.Prompt = "email> "
	email.Placeholder = "you@example.com"

	message := textarea.New()
	message.Placeholder = "Write your message..."
	message.ShowLineNumbers = false
	message.SetHeight(4)

	m := Model{
		styles:   DefaultStyles(),
		viewport: viewport.New(80, 20),
		email:    email,
		message:  message,
		width:    80,
		height:   24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case appendLineMsg:
		m.lines = append(m.lines, msg.line)
		m.refresh()
		return m, nil

	case setLineMsg:
		if msg.index >= 0 && msg.index < len(m.lines) {
			m.lines[msg.index].Text = msg.text
			m.refresh()
		}
		return m, nil

	case scrollMsg:
		m.viewport.GotoBottom()
		return m, nil

	case formMsg:
		m.formVisible = msg.visible
		m.resize()
		if msg.visible {
			m.focusMessage = false
			m.message.Blur()
			return m, m.email.Focus()
		}
		m.email.Blur()
		m.message.Blur()
		return m, nil

	case responseMsg:
		m.responseKind = msg.kind
		m.response = msg.lines
		return m, nil

	case revealMsg:
		m.contentVisible = true
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case SubmittedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	if !m.formVisible {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "tab", "shift+tab":
		m.focusMessage = !m.focusMessage
		if m.focusMessage {
			m.email.Blur()
			return m, m.message.Focus()
		}
		m.message.Blur()
		return m, m.email.Focus()
	case "ctrl+s":
		if m.submit == nil {
			return m, nil
		}
		return m, m.submit(contact.Payload{
			Email:   m.email.Value(),
			Message: m.message.Value(),
		})
	}

	var cmd tea.Cmd
	if m.focusMessage {
		m.message, cmd = m.message.Update(msg)
	} else {
		m.email, cmd = m.email.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	height := m.height - 2
	if m.formVisible {
		height -= formHeight
	}
	if height < 3 {
		height = 3
	}
	m.viewport.Height = height
	m.email.Width = m.width - len(m.email.Prompt) - 1
	m.message.SetWidth(m.width)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderLines())
}

func (m Model) renderLines() string {
	rows := make([]string, 0, len(m.lines)+1)
	for _, line := range m.lines {
		rows = append(rows, m.styles.Render(line))
	}
	if m.contentVisible && m.content != "" {
		rows = append(rows, m.styles.Content.Render(m.content))
	}
	return strings.Join(rows, "\n")
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.formVisible {
		b.WriteString(m.styles.Label.Render("$ ./mail-client --compose"))
		b.WriteString("\n")
		b.WriteString(m.email.View())
		b.WriteString("\n")
		b.WriteString(m.message.View())
		b.WriteString("\n")
	}

	for _, line := range m.response {
		b.WriteString(m.styles.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.helpText()))
	return b.String()
}

func (m Model) helpText() string {
	if m.formVisible {
		return "tab: switch field • ctrl+s: send • esc: quit"
	}
	return "↑/↓: scroll • q: quit"
}

// Lines returns the lines appended so far.
func (m Model) Lines() []sequence.Line {
	return m.lines
}

func (m Model) FormVisible() bool {
	return m.formVisible
}

func (m Model) ContentVisible() bool {
	return m.contentVisible
}
