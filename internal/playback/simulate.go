package playback

import (
	"fmt"
	"time"

	"github.com/idilsaglam/toast/internal/clock"
	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/store/scriptstore"
	"github.com/idilsaglam/toast/internal/toast"
)

// maxSimulatedCallbacks bounds a simulation; scripts are finite, so hitting
// it means something keeps re-arming.
const maxSimulatedCallbacks = 100_000

// Entry is one line of a simulated timeline.
type Entry struct {
	Offset time.Duration
	Event  toast.Event
}

// Result is the outcome of a simulation.
type Result struct {
	Timeline []Entry
	// Remaining lists toasts still active once no timers are left, i.e.
	// sticky toasts nobody dismissed.
	Remaining []model.Toast
	Elapsed   time.Duration
}

// Simulate runs s on a manual clock until nothing is pending and returns
// every create and dismiss with its offset from the start.
func Simulate(s scriptstore.Script, defaults func(model.Variant) time.Duration) (Result, error) {
	start := time.Unix(0, 0).UTC()
	c := clock.NewManual(start)
	m := toast.NewManager(toast.WithClock(c))
	defer m.Close()

	var res Result
	m.Subscribe(func(ev toast.Event) {
		res.Timeline = append(res.Timeline, Entry{Offset: ev.At.Sub(start), Event: ev})
	})

	p := &Player{Clock: c, Manager: m, Defaults: defaults}
	if _, err := p.Start(s); err != nil {
		return Result{}, err
	}
	if n := c.RunUntilIdle(maxSimulatedCallbacks); n == maxSimulatedCallbacks {
		return Result{}, fmt.Errorf("simulation did not settle after %d callbacks", n)
	}
	res.Remaining = m.List()
	res.Elapsed = c.Now().Sub(start)
	return res, nil
}
