// Package api defines the JSON shapes exchanged over the HTTP API.
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/toast"
)

// CreateRequest is the body of POST /toasts. Duration is a Go duration
// string; empty or "0s" keeps the toast until it is dismissed.
type CreateRequest struct {
	Variant  string `json:"variant,omitempty"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content"`
	Duration string `json:"duration,omitempty"`
}

// ToRequest validates the body and converts it.
func (c CreateRequest) ToRequest() (model.Request, error) {
	v, err := model.ParseVariant(c.Variant)
	if err != nil {
		return model.Request{}, err
	}
	if strings.TrimSpace(c.Content) == "" && strings.TrimSpace(c.Title) == "" {
		return model.Request{}, fmt.Errorf("content or title is required")
	}
	var d time.Duration
	if s := strings.TrimSpace(c.Duration); s != "" {
		if d, err = time.ParseDuration(s); err != nil {
			return model.Request{}, fmt.Errorf("invalid duration %q: %w", c.Duration, err)
		}
	}
	return model.Request{Variant: v, Title: c.Title, Content: c.Content, Duration: d}, nil
}

type CreateResponse struct {
	ID model.ID `json:"id"`
}

type ClearResponse struct {
	Cleared int `json:"cleared"`
}

// Toast is the wire form of an active toast. ExpiresAt is set while an
// auto-dismiss timer is pending.
type Toast struct {
	ID        model.ID   `json:"id"`
	Variant   string     `json:"variant"`
	Title     string     `json:"title,omitempty"`
	Content   string     `json:"content"`
	Duration  string     `json:"duration,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FromModel converts a toast; deadline is zero when no timer is pending.
func FromModel(t model.Toast, deadline time.Time) Toast {
	out := Toast{
		ID:        t.ID,
		Variant:   string(t.Variant),
		Title:     t.Title,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
	if t.Duration > 0 {
		out.Duration = t.Duration.String()
	}
	if !deadline.IsZero() {
		out.ExpiresAt = &deadline
	}
	return out
}

// Error is the body of every non-2xx response.
type Error struct {
	Error string `json:"error"`
}

// Stream message types sent over GET /toasts/stream.
const (
	StreamSnapshot = "snapshot"
	StreamEvent    = "event"
)

// StreamMessage is one WebSocket frame. Snapshot frames carry Toasts,
// event frames carry Kind, Reason and Toast.
type StreamMessage struct {
	Type   string    `json:"type"`
	Toasts []Toast   `json:"toasts,omitempty"`
	Kind   string    `json:"kind,omitempty"`
	Reason string    `json:"reason,omitempty"`
	Toast  *Toast    `json:"toast,omitempty"`
	At     time.Time `json:"at,omitzero"`
}

// EventMessage converts a manager event to a stream frame.
func EventMessage(ev toast.Event) StreamMessage {
	var deadline time.Time
	if ev.Kind == toast.EventCreated && ev.Toast.AutoDismiss() {
		deadline = ev.Toast.CreatedAt.Add(ev.Toast.Duration)
	}
	t := FromModel(ev.Toast, deadline)
	return StreamMessage{
		Type:   StreamEvent,
		Kind:   string(ev.Kind),
		Reason: string(ev.Reason),
		Toast:  &t,
		At:     ev.At,
	}
}
