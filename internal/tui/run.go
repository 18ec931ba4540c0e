package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xurxxo/termfolio/internal/contact"
	"github.com/xurxxo/termfolio/internal/unzip"
)

// SubmitWith submits through player on a command goroutine.
func SubmitWith(ctx context.Context, player *contact.Player) SubmitFunc {
	return func(payload contact.Payload) tea.Cmd {
		return func() tea.Msg {
			return SubmittedMsg{Outcome: player.Submit(ctx, payload)}
		}
	}
}

// RunContact plays the contact page in the terminal until the user quits.
func RunContact(ctx context.Context, sender contact.Sender, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var player *contact.Player
	model := NewModel(WithSubmit(func(p contact.Payload) tea.Cmd {
		return SubmitWith(ctx, player)(p)
	}))
	program := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	bridge := NewBridge(program.Send)
	player, err := contact.New(bridge, bridge.Form(), bridge.Response(), sender)
	if err != nil {
		return fmt.Errorf("create contact player: %w", err)
	}
	handle := player.Play(ctx)

	_, err = program.Run()
	cancel()
	<-handle.Done()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run contact page: %w", err)
	}
	return nil
}

// RunUnzip plays the extraction animation for the page identified by title
// and path, then shows content.
func RunUnzip(ctx context.Context, title, path, content string, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(WithContent(content)), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	bridge := NewBridge(program.Send)
	handle := unzip.New(bridge, bridge.Content(), title, path).Play(ctx)

	_, err := program.Run()
	cancel()
	if handle != nil {
		<-handle.Done()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run unzip page: %w", err)
	}
	return nil
}
