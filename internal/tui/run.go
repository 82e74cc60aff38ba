package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/toast/internal/toast"
)

// Run shows m's toasts until the user quits or ctx is cancelled. lc must be
// the clock m was built with; it is attached to the program so timers fire
// on the event loop. onStart, if set, runs once the loop is receiving, e.g.
// to start a script player. The manager is closed on return.
func Run(ctx context.Context, m *toast.Manager, lc *LoopClock, opts Options, onStart func() error) error {
	p := tea.NewProgram(New(m, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	lc.Attach(p.Send)
	defer m.Close()

	// changes from other goroutines (the HTTP API) need a redraw
	unsubscribe := m.Subscribe(func(toast.Event) { go p.Send(changedMsg{}) })
	defer unsubscribe()

	if onStart != nil {
		if err := onStart(); err != nil {
			return err
		}
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
