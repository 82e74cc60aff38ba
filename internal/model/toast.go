package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownVariant is returned by ParseVariant for names outside the fixed set.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant is the category tag of a toast.
type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

// Variants lists every variant in display order.
var Variants = []Variant{VariantInfo, VariantSuccess, VariantWarning, VariantError}

// ParseVariant accepts a variant name (case-insensitive). Empty means info.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return VariantInfo, nil
	case "success", "ok":
		return VariantSuccess, nil
	case "warning", "warn":
		return VariantWarning, nil
	case "error", "err":
		return VariantError, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Next cycles to the following variant, wrapping around.
func (v Variant) Next() Variant {
	for i, x := range Variants {
		if x == v {
			return Variants[(i+1)%len(Variants)]
		}
	}
	return VariantInfo
}

// ID identifies a toast for as long as it is active. IDs are never reused
// within a process.
type ID uint64

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseID parses the decimal form produced by ID.String.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ID(n), nil
}

// Request carries what a caller asks for when creating a toast.
// A zero Duration means the toast stays until dismissed.
type Request struct {
	Variant  Variant
	Title    string
	Content  string
	Duration time.Duration
}

// Normalize fills the default variant and clamps negative durations to zero,
// so a negative duration behaves like "manual dismiss only". It reports
// whether a clamp happened.
func (r Request) Normalize() (Request, bool) {
	if r.Variant == "" {
		r.Variant = VariantInfo
	}
	clamped := false
	if r.Duration < 0 {
		r.Duration = 0
		clamped = true
	}
	return r, clamped
}

// Toast is an active notification entry. Values are never changed in place;
// the registry only appends and removes them.
type Toast struct {
	ID        ID            `json:"id"`
	Variant   Variant       `json:"variant"`
	Title     string        `json:"title,omitempty"`
	Content   string        `json:"content"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// AutoDismiss reports whether the toast removes itself after Duration.
func (t Toast) AutoDismiss() bool { return t.Duration > 0 }
