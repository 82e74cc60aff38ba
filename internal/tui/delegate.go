package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/toast"
)

const barWidth = 20

// toastItem adapts a model.Toast to bubbles/list.Item
type toastItem struct{ model.Toast }

func (i toastItem) Title() string       { return i.Toast.Title }
func (i toastItem) Description() string { return i.Content }
func (i toastItem) FilterValue() string { return i.Toast.Title + " " + i.Content }

// toastDelegate draws each toast on two lines: badge and text, then the
// time left before it auto-dismisses.
type toastDelegate struct {
	manager *toast.Manager
	styles  styles
}

func (d toastDelegate) Height() int                               { return 2 }
func (d toastDelegate) Spacing() int                              { return 1 }
func (d toastDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d toastDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(toastItem)
	if !ok {
		return
	}
	s := d.styles

	text := it.Content
	if it.Toast.Title != "" {
		text = s.title.Render(it.Toast.Title) + "  " + it.Content
	}
	prefix := "  "
	if index == m.Index() {
		prefix = s.selected.Render(">") + " "
	}
	head := fmt.Sprintf("%s%s %s %s", prefix, s.badge(it.Variant), s.muted.Render("#"+it.ID.String()), text)
	fmt.Fprintln(w, head)
	fmt.Fprint(w, "    "+d.status(it.Toast))
}

func (d toastDelegate) status(t model.Toast) string {
	s := d.styles
	if t.Duration <= 0 {
		return s.muted.Render("sticky")
	}
	deadline, ok := d.manager.Deadline(t.ID)
	if !ok {
		return s.muted.Render("pinned")
	}
	left := max(deadline.Sub(d.manager.Now()), 0)
	pct := float64(left) / float64(t.Duration)
	return s.bar(t.Variant, barWidth).ViewAs(pct) + " " + s.muted.Render(formatLeft(left))
}

func formatLeft(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
