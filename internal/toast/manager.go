package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/toast/internal/clock"
	"github.com/idilsaglam/toast/internal/model"
)

// EventKind says what happened to a toast.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventDismissed EventKind = "dismissed"
)

// Reason says why a toast was dismissed.
type Reason string

const (
	ReasonManual  Reason = "manual"
	ReasonExpired Reason = "expired"
	ReasonCleared Reason = "cleared"
)

// Event is delivered to subscribers after every change to the collection.
type Event struct {
	Kind   EventKind   `json:"kind"`
	Toast  model.Toast `json:"toast"`
	Reason Reason      `json:"reason,omitempty"`
	At     time.Time   `json:"at"`
}

// Manager ties a Registry to a TimerController. Front-ends talk to it
// instead of either piece directly.
type Manager struct {
	clock    clock.Clock
	registry *Registry
	timers   *TimerController
	log      zerolog.Logger

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

type subscriber struct {
	key int
	fn  func(Event)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for timestamps and timers.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager returns a Manager on the wall clock unless WithClock is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clock: clock.Real(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.registry = NewRegistry(m.clock.Now)
	m.timers = NewTimerController(m.clock, m.expire)
	return m
}

// Create adds a toast and arms its timer when it has a duration.
func (m *Manager) Create(req model.Request) model.ID {
	if _, clamped := req.Normalize(); clamped {
		m.log.Warn().Dur("duration", req.Duration).Msg("negative duration clamped to zero")
	}
	t := m.registry.Create(req)
	// Published before arming so no expiry event can overtake it.
	m.publish(Event{Kind: EventCreated, Toast: t, At: t.CreatedAt})
	armed := m.timers.Schedule(t.ID, t.Duration)
	if _, ok := m.registry.Get(t.ID); armed && !ok {
		// dismissed by a subscriber or another goroutine before arming
		m.timers.Cancel(t.ID)
		armed = false
	}
	m.log.Debug().
		Stringer("id", t.ID).
		Str("variant", string(t.Variant)).
		Dur("duration", t.Duration).
		Bool("armed", armed).
		Msg("toast created")
	return t.ID
}

// Dismiss removes a toast by hand. Its timer is cancelled first so it can
// never fire against the removed id. Dismissing an absent id does nothing
// and reports false.
func (m *Manager) Dismiss(id model.ID) bool {
	m.timers.Cancel(id)
	return m.remove(id, ReasonManual)
}

// Pin cancels a toast's auto-dismiss timer but keeps the toast.
func (m *Manager) Pin(id model.ID) bool {
	if _, ok := m.registry.Get(id); !ok {
		return false
	}
	m.timers.Cancel(id)
	m.log.Debug().Stringer("id", id).Msg("toast pinned")
	return true
}

// Restart re-arms a toast's timer with its own duration, counting from now.
func (m *Manager) Restart(id model.ID) bool {
	t, ok := m.registry.Get(id)
	if !ok {
		return false
	}
	m.timers.Reschedule(id, t.Duration)
	m.log.Debug().Stringer("id", id).Dur("duration", t.Duration).Msg("toast timer restarted")
	return true
}

// Clear cancels all timers and removes every toast.
func (m *Manager) Clear() int {
	removed := m.registry.Clear()
	now := m.clock.Now()
	for _, t := range removed {
		m.timers.Cancel(t.ID)
	}
	for _, t := range removed {
		m.publish(Event{Kind: EventDismissed, Toast: t, Reason: ReasonCleared, At: now})
	}
	if len(removed) > 0 {
		m.log.Debug().Int("count", len(removed)).Msg("toasts cleared")
	}
	return len(removed)
}

// List returns the active toasts, oldest first.
func (m *Manager) List() []model.Toast { return m.registry.List() }

// Get returns one active toast.
func (m *Manager) Get(id model.ID) (model.Toast, bool) { return m.registry.Get(id) }

// Deadline returns when id will auto-dismiss, if a timer is pending.
func (m *Manager) Deadline(id model.ID) (time.Time, bool) { return m.timers.Deadline(id) }

// Now returns the manager's clock time.
func (m *Manager) Now() time.Time { return m.clock.Now() }

// PendingTimers returns the number of armed timers.
func (m *Manager) PendingTimers() int { return m.timers.Len() }

// Subscribe registers fn for every event. fn runs on the goroutine that made
// the change, after the registry lock is released. Call the returned func to
// unsubscribe.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.nextID++
	key := m.nextID
	m.subs = append(m.subs, subscriber{key: key, fn: fn})
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		m.subs = slices.DeleteFunc(m.subs, func(s subscriber) bool { return s.key == key })
	}
}

// Close cancels every pending timer. Toasts stay listed but nothing will
// expire them any more.
func (m *Manager) Close() {
	m.timers.Stop()
}

// expire is the handle bound into the TimerController.
func (m *Manager) expire(id model.ID) {
	m.remove(id, ReasonExpired)
}

func (m *Manager) remove(id model.ID, reason Reason) bool {
	t, ok := m.registry.Dismiss(id)
	if !ok {
		return false
	}
	m.log.Debug().Stringer("id", id).Str("reason", string(reason)).Msg("toast dismissed")
	m.publish(Event{Kind: EventDismissed, Toast: t, Reason: reason, At: m.clock.Now()})
	return true
}

func (m *Manager) publish(ev Event) {
	m.subMu.Lock()
	subs := slices.Clone(m.subs)
	m.subMu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
