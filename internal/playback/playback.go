// Package playback runs scripted toast timelines against a Manager.
package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/toast/internal/clock"
	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/store/scriptstore"
	"github.com/idilsaglam/toast/internal/toast"
)

// Player schedules a script's steps on a clock. Create steps with no
// duration fall back to Defaults, if set, unless marked sticky.
//
// Steps run in script order on any clock: steps sharing an offset form one
// group behind a single timer, and a group only runs once every earlier
// group has.
type Player struct {
	Clock    clock.Clock
	Manager  *toast.Manager
	Defaults func(model.Variant) time.Duration
	Log      zerolog.Logger

	mu       sync.Mutex
	created  []model.ID
	timers   []clock.Timer
	groups   [][]step
	due      []bool
	next     int
	draining bool
	stopped  bool
	done     chan struct{}
}

// Start arms every step relative to now. The returned channel closes once
// the last step has run.
func (p *Player) Start(s scriptstore.Script) (<-chan struct{}, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var groups [][]step
	var offsets []time.Duration
	for i, st := range s.Steps {
		var v model.Variant
		if st.Kind() == scriptstore.ActionCreate {
			var err error
			if v, err = model.ParseVariant(st.Variant); err != nil {
				return nil, fmt.Errorf("step at %s: %w", time.Duration(st.At), err)
			}
		}
		at := time.Duration(st.At)
		if i == 0 || at != offsets[len(offsets)-1] {
			groups = append(groups, nil)
			offsets = append(offsets, at)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], step{Step: st, variant: v})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = make(chan struct{})
	p.created = nil
	p.groups = groups
	p.due = make([]bool, len(groups))
	p.next = 0
	p.stopped = false
	if len(groups) == 0 {
		close(p.done)
		return p.done, nil
	}
	for i, at := range offsets {
		i := i
		p.timers = append(p.timers, p.Clock.AfterFunc(at, func() { p.fire(i) }))
	}
	return p.done, nil
}

// Stop cancels steps that have not run yet.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
}

type step struct {
	scriptstore.Step
	variant model.Variant
}

// fire marks group i due and, unless another goroutine is already doing
// so, runs every due group that has no earlier group still waiting.
func (p *Player) fire(i int) {
	p.mu.Lock()
	p.due[i] = true
	if p.draining {
		p.mu.Unlock()
		return
	}
	p.draining = true
	for !p.stopped && p.next < len(p.groups) && p.due[p.next] {
		g := p.groups[p.next]
		p.next++
		p.mu.Unlock()
		for _, st := range g {
			p.run(st)
		}
		p.mu.Lock()
	}
	p.draining = false
	if p.next == len(p.groups) && !p.stopped {
		p.stopped = true
		close(p.done)
	}
	p.mu.Unlock()
}

func (p *Player) run(st step) {
	switch st.Kind() {
	case scriptstore.ActionCreate:
		d := time.Duration(st.Duration)
		if st.Sticky {
			d = 0
		} else if d == 0 && p.Defaults != nil {
			d = p.Defaults(st.variant)
		}
		id := p.Manager.Create(model.Request{
			Variant:  st.variant,
			Title:    st.Title,
			Content:  st.Content,
			Duration: d,
		})
		p.mu.Lock()
		p.created = append(p.created, id)
		p.mu.Unlock()
	case scriptstore.ActionDismiss:
		p.mu.Lock()
		n := len(p.created)
		var id model.ID
		if st.Target >= 1 && st.Target <= n {
			id = p.created[st.Target-1]
		}
		p.mu.Unlock()
		if id == 0 {
			p.Log.Warn().Int("target", st.Target).Int("created", n).Msg("dismiss target not created yet, skipping")
			return
		}
		p.Manager.Dismiss(id)
	case scriptstore.ActionClear:
		p.Manager.Clear()
	}
}
