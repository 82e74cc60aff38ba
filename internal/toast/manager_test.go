package toast_test

import (
	"testing"
	"time"

	"github.com/idilsaglam/toast/internal/clock"
	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dismissal struct {
	content string
	reason  toast.Reason
	at      time.Duration
}

func newManager(t *testing.T) (*toast.Manager, *clock.Manual, *[]dismissal) {
	t.Helper()
	c := clock.NewManual(epoch)
	m := toast.NewManager(toast.WithClock(c))
	var got []dismissal
	m.Subscribe(func(ev toast.Event) {
		if ev.Kind == toast.EventDismissed {
			got = append(got, dismissal{ev.Toast.Content, ev.Reason, ev.At.Sub(epoch)})
		}
	})
	t.Cleanup(m.Close)
	return m, c, &got
}

func TestManagerAutoDismissAfterDuration(t *testing.T) {
	m, c, got := newManager(t)

	m.Create(model.Request{Content: "a", Duration: 3 * time.Second})
	// Unrelated churn must not move a's deadline.
	c.Advance(500 * time.Millisecond)
	b := m.Create(model.Request{Content: "b"})
	c.Advance(500 * time.Millisecond)
	m.Dismiss(b)
	m.Create(model.Request{Content: "c", Duration: 10 * time.Second})

	c.Advance(2 * time.Second)
	assert.Equal(t, []dismissal{
		{"b", toast.ReasonManual, time.Second},
		{"a", toast.ReasonExpired, 3 * time.Second},
	}, *got)
}

func TestManagerStaggeredDeadlines(t *testing.T) {
	m, c, got := newManager(t)

	m.Create(model.Request{Content: "A", Duration: 3 * time.Second})
	c.Advance(time.Second)
	m.Create(model.Request{Content: "B", Duration: 3 * time.Second})
	c.Advance(time.Second)
	m.Create(model.Request{Content: "C", Duration: 3 * time.Second})
	c.RunUntilIdle(10)

	assert.Equal(t, []dismissal{
		{"A", toast.ReasonExpired, 3 * time.Second},
		{"B", toast.ReasonExpired, 4 * time.Second},
		{"C", toast.ReasonExpired, 5 * time.Second},
	}, *got)
	assert.Empty(t, m.List())
}

func TestManagerDismissCancelsTimer(t *testing.T) {
	m, c, got := newManager(t)

	id := m.Create(model.Request{Content: "a", Duration: time.Second})
	assert.True(t, m.Dismiss(id))
	assert.False(t, m.Dismiss(id))
	assert.Zero(t, c.Pending())
	assert.Zero(t, m.PendingTimers())

	c.Advance(time.Hour)
	assert.Equal(t, []dismissal{{"a", toast.ReasonManual, 0}}, *got)
}

func TestManagerStickyToastStays(t *testing.T) {
	m, c, got := newManager(t)

	zero := m.Create(model.Request{Content: "zero"})
	neg := m.Create(model.Request{Content: "negative", Duration: -time.Second})
	c.Advance(24 * time.Hour)

	assert.Empty(t, *got)
	assert.Equal(t, []model.ID{zero, neg}, ids(m.List()))

	m.Dismiss(zero)
	assert.Equal(t, []model.ID{neg}, ids(m.List()))
}

func TestManagerBurstSchedulesIndependentTimers(t *testing.T) {
	m, c, got := newManager(t)

	const n = 25
	var created []model.ID
	for i := 0; i < n; i++ {
		created = append(created, m.Create(model.Request{
			Content:  "t",
			Duration: time.Duration(n-i) * time.Second,
		}))
	}
	assert.Equal(t, n, m.PendingTimers())

	// Removing some entries leaves the others' deadlines alone.
	m.Dismiss(created[0])
	m.Dismiss(created[10])
	for i, id := range created {
		if i == 0 || i == 10 {
			continue
		}
		deadline, ok := m.Deadline(id)
		require.True(t, ok)
		assert.Equal(t, epoch.Add(time.Duration(n-i)*time.Second), deadline)
	}

	c.RunUntilIdle(100)
	assert.Empty(t, m.List())
	assert.Len(t, *got, n)
}

func TestManagerPinAndRestart(t *testing.T) {
	m, c, got := newManager(t)

	id := m.Create(model.Request{Content: "a", Duration: 2 * time.Second})
	c.Advance(time.Second)
	require.True(t, m.Pin(id))
	c.Advance(time.Hour)
	assert.Empty(t, *got)
	_, ok := m.Deadline(id)
	assert.False(t, ok)

	require.True(t, m.Restart(id))
	c.Advance(2 * time.Second)
	require.Len(t, *got, 1)
	assert.Equal(t, toast.ReasonExpired, (*got)[0].reason)

	assert.False(t, m.Pin(id))
	assert.False(t, m.Restart(id))
}

func TestManagerClear(t *testing.T) {
	m, c, got := newManager(t)

	m.Create(model.Request{Content: "a", Duration: time.Second})
	m.Create(model.Request{Content: "b"})
	assert.Equal(t, 2, m.Clear())
	assert.Zero(t, c.Pending())
	assert.Equal(t, []dismissal{
		{"a", toast.ReasonCleared, 0},
		{"b", toast.ReasonCleared, 0},
	}, *got)
	assert.Zero(t, m.Clear())
}

func TestManagerCloseReleasesTimers(t *testing.T) {
	c := clock.NewManual(epoch)
	m := toast.NewManager(toast.WithClock(c))
	m.Create(model.Request{Content: "a", Duration: time.Second})
	m.Create(model.Request{Content: "b", Duration: 2 * time.Second})

	m.Close()
	assert.Zero(t, c.Pending())
	c.Advance(time.Hour)
	assert.Len(t, m.List(), 2)
}

func TestManagerUnsubscribe(t *testing.T) {
	c := clock.NewManual(epoch)
	m := toast.NewManager(toast.WithClock(c))
	count := 0
	unsubscribe := m.Subscribe(func(toast.Event) { count++ })

	m.Create(model.Request{Content: "a"})
	unsubscribe()
	m.Create(model.Request{Content: "b"})

	assert.Equal(t, 1, count)
}

func TestManagerSubscriberMayReadState(t *testing.T) {
	c := clock.NewManual(epoch)
	m := toast.NewManager(toast.WithClock(c))
	var sizes []int
	m.Subscribe(func(toast.Event) { sizes = append(sizes, len(m.List())) })

	id := m.Create(model.Request{Content: "a", Duration: time.Second})
	m.Create(model.Request{Content: "b"})
	c.Advance(time.Second)
	m.Dismiss(id)

	assert.Equal(t, []int{1, 2, 1}, sizes)
}

func TestManagerPublishesCreatedBeforeArming(t *testing.T) {
	c := clock.NewManual(epoch)
	m := toast.NewManager(toast.WithClock(c))
	t.Cleanup(m.Close)

	var pendingAtCreate []int
	m.Subscribe(func(ev toast.Event) {
		if ev.Kind == toast.EventCreated {
			pendingAtCreate = append(pendingAtCreate, m.PendingTimers())
		}
	})

	m.Create(model.Request{Content: "a", Duration: time.Second})
	m.Create(model.Request{Content: "b", Duration: time.Second})
	assert.Equal(t, []int{0, 1}, pendingAtCreate)
	assert.Equal(t, 2, m.PendingTimers())
}

func TestManagerSubscriberDismissOnCreateLeavesNoTimer(t *testing.T) {
	c := clock.NewManual(epoch)
	m := toast.NewManager(toast.WithClock(c))
	t.Cleanup(m.Close)

	var kinds []toast.EventKind
	m.Subscribe(func(ev toast.Event) {
		kinds = append(kinds, ev.Kind)
		if ev.Kind == toast.EventCreated {
			m.Dismiss(ev.Toast.ID)
		}
	})

	m.Create(model.Request{Content: "gone", Duration: time.Second})
	assert.Equal(t, []toast.EventKind{toast.EventCreated, toast.EventDismissed}, kinds)
	assert.Empty(t, m.List())
	assert.Zero(t, m.PendingTimers())
	c.Advance(time.Minute)
	assert.Equal(t, []toast.EventKind{toast.EventCreated, toast.EventDismissed}, kinds)
}
