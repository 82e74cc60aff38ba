package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/toast/internal/clock"
)

// fireMsg carries a timer callback onto the program's event loop.
type fireMsg struct{ f func() }

// LoopClock is a clock whose AfterFunc callbacks run inside Update instead
// of on the timer's goroutine, so every change to the toast collection
// happens on the event loop.
type LoopClock struct {
	base clock.Clock

	mu   sync.Mutex
	send func(tea.Msg)
}

// NewLoopClock wraps base. Until Attach is called callbacks run directly.
func NewLoopClock(base clock.Clock) *LoopClock {
	return &LoopClock{base: base}
}

// Attach routes callbacks through send, normally (*tea.Program).Send.
func (c *LoopClock) Attach(send func(tea.Msg)) {
	c.mu.Lock()
	c.send = send
	c.mu.Unlock()
}

func (c *LoopClock) Now() time.Time { return c.base.Now() }

func (c *LoopClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.base.AfterFunc(d, func() { c.deliver(f) })
}

func (c *LoopClock) deliver(f func()) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		f()
		return
	}
	send(fireMsg{f: f})
}
