package toast

import (
	"sync"
	"time"

	"github.com/idilsaglam/toast/internal/clock"
	"github.com/idilsaglam/toast/internal/model"
)

// TimerController keeps at most one pending auto-dismiss timer per toast.
//
// A timer is keyed only by its toast's id and duration. The expire handle is
// bound once in NewTimerController and never changes, so adding or removing
// other toasts never re-arms a timer.
type TimerController struct {
	clock  clock.Clock
	expire func(model.ID)

	mu      sync.Mutex
	pending map[model.ID]pendingTimer
	gen     uint64
	stopped bool
}

type pendingTimer struct {
	timer    clock.Timer
	gen      uint64
	deadline time.Time
}

// NewTimerController returns a controller that calls expire(id) when a
// timer for id runs out.
func NewTimerController(c clock.Clock, expire func(model.ID)) *TimerController {
	return &TimerController{
		clock:   c,
		expire:  expire,
		pending: make(map[model.ID]pendingTimer),
	}
}

// Schedule arms a timer that expires id after d. A zero or negative d arms
// nothing. Any timer already pending for id is cancelled first. It reports
// whether a timer was armed.
func (c *TimerController) Schedule(id model.ID, d time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(id)
	if d <= 0 || c.stopped {
		return false
	}
	c.gen++
	gen := c.gen
	deadline := c.clock.Now().Add(d)
	t := c.clock.AfterFunc(d, func() { c.fire(id, gen) })
	c.pending[id] = pendingTimer{timer: t, gen: gen, deadline: deadline}
	return true
}

// Cancel stops the pending timer for id. Once Cancel returns, that timer's
// expiry will not run, even if its callback is already queued. It reports
// whether a timer was pending.
func (c *TimerController) Cancel(id model.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelLocked(id)
}

// Reschedule is Cancel followed by Schedule.
func (c *TimerController) Reschedule(id model.ID, d time.Duration) bool {
	return c.Schedule(id, d)
}

// Pending reports whether id has an armed timer.
func (c *TimerController) Pending(id model.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// Deadline returns when the pending timer for id will fire.
func (c *TimerController) Deadline(id model.ID) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	return p.deadline, ok
}

// Len returns the number of pending timers.
func (c *TimerController) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stop cancels every pending timer and refuses new ones.
func (c *TimerController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.pending {
		c.cancelLocked(id)
	}
	c.stopped = true
}

func (c *TimerController) cancelLocked(id model.ID) bool {
	p, ok := c.pending[id]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(c.pending, id)
	return true
}

// fire runs on the clock's callback path. A generation mismatch means the
// timer was cancelled or replaced after its callback was already queued.
func (c *TimerController) fire(id model.ID, gen uint64) {
	c.mu.Lock()
	p, ok := c.pending[id]
	if !ok || p.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.pending, id)
	c.mu.Unlock()

	c.expire(id)
}
