// Package toast holds the active toast collection and the auto-dismiss
// timers attached to it.
//
// Toasts are kept oldest first: Create appends to the end and List returns
// entries in insertion order. Every mutation is a function from the latest
// collection to the next one, applied under the registry lock, so a timer
// firing and a manual dismiss racing for the same toast both converge on
// "absent" without clobbering unrelated entries.
package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/idilsaglam/toast/internal/model"
)

// Registry is the single source of truth for active toasts.
type Registry struct {
	mu     sync.Mutex
	toasts []model.Toast
	lastID model.ID
	now    func() time.Time
}

// NewRegistry returns an empty registry stamping CreatedAt with now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{now: now}
}

// Update applies fn to the current collection and stores the result. fn gets
// a private copy, so it may modify and return it. fn must not call back into
// the registry.
func (r *Registry) Update(fn func([]model.Toast) []model.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = fn(slices.Clone(r.toasts))
}

// Create appends a new toast and returns its ID. Negative durations are
// treated as zero. The ID is assigned in the same update as the append, so
// insertion order always matches ID order.
func (r *Registry) Create(req model.Request) model.Toast {
	req, _ = req.Normalize()

	var t model.Toast
	r.Update(func(cur []model.Toast) []model.Toast {
		r.lastID++
		t = model.Toast{
			ID:        r.lastID,
			Variant:   req.Variant,
			Title:     req.Title,
			Content:   req.Content,
			Duration:  req.Duration,
			CreatedAt: r.now(),
		}
		return append(cur, t)
	})
	return t
}

// Dismiss removes the toast with id if it is present. Dismissing an absent
// id does nothing. The removed toast is returned with ok set when something
// was removed.
func (r *Registry) Dismiss(id model.ID) (removed model.Toast, ok bool) {
	r.Update(func(cur []model.Toast) []model.Toast {
		return slices.DeleteFunc(cur, func(t model.Toast) bool {
			if t.ID == id {
				removed, ok = t, true
				return true
			}
			return false
		})
	})
	return removed, ok
}

// Clear removes every toast and returns what was removed, oldest first.
func (r *Registry) Clear() []model.Toast {
	var removed []model.Toast
	r.Update(func(cur []model.Toast) []model.Toast {
		removed = cur
		return nil
	})
	return removed
}

// List returns a snapshot of the active toasts, oldest first.
func (r *Registry) List() []model.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.toasts)
}

// Get looks up a single toast.
func (r *Registry) Get(id model.ID) (model.Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.toasts {
		if t.ID == id {
			return t, true
		}
	}
	return model.Toast{}, false
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.toasts)
}
