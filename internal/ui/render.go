package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/idilsaglam/toast/internal/api"
	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/playback"
	"github.com/idilsaglam/toast/internal/toast"
)

const barWidth = 12

// ToastLine renders one active toast for `toast list`.
func ToastLine(t api.Toast, now time.Time) string {
	th := current
	v, _ := model.ParseVariant(t.Variant)
	head := C(th.Color(v), th.Icon(v)) + " " + C(th.Muted, "#"+t.ID.String())
	body := t.Content
	if t.Title != "" {
		body = C(th.Title, t.Title) + "  " + t.Content
	}
	return head + " " + body + "  " + remaining(t, now)
}

func remaining(t api.Toast, now time.Time) string {
	if t.ExpiresAt == nil {
		return C(current.Muted, "sticky")
	}
	d, err := time.ParseDuration(t.Duration)
	if err != nil || d <= 0 {
		return ""
	}
	left := max(t.ExpiresAt.Sub(now), 0)
	bar := ProgressBar(int(left/time.Millisecond), int(d/time.Millisecond), barWidth)
	return C(current.Muted, bar+" "+left.Round(100*time.Millisecond).String())
}

// Toasts prints a framed list, or a muted note when empty.
func Toasts(w io.Writer, toasts []api.Toast, now time.Time) {
	if len(toasts) == 0 {
		fmt.Fprintln(w, C(current.Muted, "no active toasts"))
		return
	}
	lines := make([]string, 0, len(toasts)+1)
	lines = append(lines, C(current.Title, fmt.Sprintf("Toasts (%d)", len(toasts))))
	for _, t := range toasts {
		lines = append(lines, ToastLine(t, now))
	}
	Panel(w, lines)
}

// Timeline prints a simulation: one line per create or dismiss.
func Timeline(w io.Writer, res playback.Result) {
	t := current
	for _, e := range res.Timeline {
		ev := e.Event
		v := ev.Toast.Variant
		label := ev.Toast.Content
		if ev.Toast.Title != "" {
			label = ev.Toast.Title + ": " + ev.Toast.Content
		}
		what := "+ created"
		if ev.Kind == toast.EventDismissed {
			what = "- " + string(ev.Reason)
		}
		fmt.Fprintf(w, "%8s  %s %-10s #%-3s %s\n",
			formatOffset(e.Offset),
			C(t.Color(v), t.Icon(v)),
			what,
			ev.Toast.ID,
			label,
		)
	}
	var tail []string
	tail = append(tail, fmt.Sprintf("elapsed %s", formatOffset(res.Elapsed)))
	if n := len(res.Remaining); n > 0 {
		ids := make([]string, n)
		for i, r := range res.Remaining {
			ids[i] = "#" + r.ID.String()
		}
		tail = append(tail, fmt.Sprintf("%d still active: %s", n, strings.Join(ids, " ")))
	}
	fmt.Fprintln(w, C(t.Muted, strings.Join(tail, ", ")))
}

func formatOffset(d time.Duration) string {
	return fmt.Sprintf("+%.3fs", d.Seconds())
}
