// Package tui is the interactive Bubble Tea front-end: a live stack of
// toasts with a composer and keys to dismiss, pin and restart them.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/toast"
)

// frame is how often the remaining-time bars redraw while timers run.
const frame = 100 * time.Millisecond

type (
	tickMsg    time.Time
	changedMsg struct{}
)

// Options tune the front-end.
type Options struct {
	Theme string
	// Visible is how many toasts fit on one page of the stack.
	Visible int
	// Defaults gives the duration for toasts created without one.
	Defaults func(model.Variant) time.Duration
	// Status is shown under the header, e.g. the API address.
	Status string
}

var quick = map[string]struct {
	variant model.Variant
	title   string
	content string
}{
	"1": {model.VariantInfo, "Heads up", "A new version is available"},
	"2": {model.VariantSuccess, "Saved", "Your changes were saved"},
	"3": {model.VariantWarning, "Careful", "Disk space is running low"},
	"4": {model.VariantError, "Failed", "Could not reach the server"},
}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	quickBind   = key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "quick toast"))
	dismissBind = key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "dismiss"))
	pinBind     = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin"))
	restartBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart"))
	clearBind   = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear"))
	quitBind    = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))
)

// Model implements tea.Model over a toast.Manager.
type Model struct {
	manager  *toast.Manager
	opts     Options
	styles   styles
	list     list.Model
	ticking  bool
	quitting bool
	width    int
	height   int

	// Inline composer
	composing bool
	ti        textinput.Model
	variant   model.Variant
	err       string
}

// New returns a model showing m's toasts.
func New(m *toast.Manager, opts Options) Model {
	if opts.Visible < 1 {
		opts.Visible = 5
	}
	st := newStyles(opts.Theme)

	l := list.New(nil, toastDelegate{manager: m, styles: st}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	extra := func() []key.Binding {
		return []key.Binding{addBind, quickBind, dismissBind, pinBind, restartBind, clearBind, quitBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message, optionally ending in @5s or @0 for sticky"
	ti.CharLimit = 200

	mod := Model{
		manager: m,
		opts:    opts,
		styles:  st,
		list:    l,
		ti:      ti,
		variant: model.VariantInfo,
		width:   80,
		height:  24,
	}
	mod.resize()
	mod.sync()
	return mod
}

// Init starts nothing; the first WindowSizeMsg starts the frame tick.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case fireMsg:
		msg.f()
	case tickMsg:
		m.ticking = false
	case changedMsg:
	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.composing {
			cmd = m.updateComposer(msg)
		} else {
			cmd = m.updateKeys(msg)
		}
		cmds = append(cmds, cmd)
	default:
		if m.composing {
			var cmd tea.Cmd
			m.ti, cmd = m.ti.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.quitting {
		return m, tea.Quit
	}
	m.sync()
	cmds = append(cmds, m.startTick())
	return m, tea.Batch(cmds...)
}

func (m *Model) updateKeys(msg tea.KeyMsg) tea.Cmd {
	m.err = ""
	k := msg.String()
	switch {
	case key.Matches(msg, quitBind):
		m.quitting = true
		m.manager.Close()
		return nil
	case key.Matches(msg, addBind):
		m.composing = true
		m.ti.SetValue("")
		m.ti.Focus()
		m.resize()
		return textinput.Blink
	case key.Matches(msg, quickBind):
		q := quick[k]
		m.manager.Create(model.Request{
			Variant:  q.variant,
			Title:    q.title,
			Content:  q.content,
			Duration: m.defaultFor(q.variant),
		})
		return nil
	case key.Matches(msg, dismissBind):
		if t, ok := m.selected(); ok {
			m.manager.Dismiss(t.ID)
		}
		return nil
	case key.Matches(msg, pinBind):
		if t, ok := m.selected(); ok {
			m.manager.Pin(t.ID)
		}
		return nil
	case key.Matches(msg, restartBind):
		if t, ok := m.selected(); ok {
			m.manager.Restart(t.ID)
		}
		return nil
	case key.Matches(msg, clearBind):
		m.manager.Clear()
		return nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *Model) updateComposer(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		m.variant = m.variant.Next()
		return nil
	case "esc":
		m.closeComposer()
		return nil
	case "enter":
		content, d, explicit, err := parseCompose(m.ti.Value())
		if err != nil {
			m.err = err.Error()
			return nil
		}
		if !explicit {
			d = m.defaultFor(m.variant)
		}
		m.manager.Create(model.Request{Variant: m.variant, Content: content, Duration: d})
		m.closeComposer()
		return nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return cmd
}

func (m *Model) closeComposer() {
	m.composing = false
	m.err = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// parseCompose splits "text @5s" into the text and the duration. explicit
// is false when no @duration suffix was given.
func parseCompose(s string) (content string, d time.Duration, explicit bool, err error) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "@"); i >= 0 && (i == 0 || s[i-1] == ' ') && !strings.ContainsAny(s[i:], " \t") {
		raw := s[i+1:]
		if d, err = time.ParseDuration(raw); err != nil {
			return "", 0, false, fmt.Errorf("bad duration %q", raw)
		}
		s, explicit = strings.TrimSpace(s[:i]), true
	}
	if s == "" {
		return "", 0, false, fmt.Errorf("message cannot be empty")
	}
	return s, d, explicit, nil
}

func (m Model) defaultFor(v model.Variant) time.Duration {
	if m.opts.Defaults == nil {
		return 0
	}
	return m.opts.Defaults(v)
}

func (m Model) selected() (model.Toast, bool) {
	it, ok := m.list.SelectedItem().(toastItem)
	if !ok {
		return model.Toast{}, false
	}
	return it.Toast, true
}

// sync replaces the list items with the manager's current toasts, keeping
// the cursor in range.
func (m *Model) sync() {
	toasts := m.manager.List()
	items := make([]list.Item, len(toasts))
	for i, t := range toasts {
		items[i] = toastItem{t}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// startTick keeps a single frame tick in flight while any timer is pending.
func (m *Model) startTick() tea.Cmd {
	if m.ticking || m.manager.PendingTimers() == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) resize() {
	d := toastDelegate{}
	rows := m.opts.Visible*(d.Height()+d.Spacing()) + 2 // pagination + help
	avail := m.height - 6
	if m.composing {
		avail -= 4
	}
	m.list.SetSize(max(m.width-4, 20), max(min(rows, avail), 3))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	if m.opts.Status != "" {
		b.WriteString(s.muted.Render(m.opts.Status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if len(m.list.Items()) == 0 {
		b.WriteString(s.muted.Render("No toasts. Press a to write one or 1-4 for a quick one."))
		b.WriteString("\n\n")
		b.WriteString(s.help.Render(m.list.Help.ShortHelpView(m.list.ShortHelp())))
	} else {
		b.WriteString(m.list.View())
	}

	if m.composing {
		title := "New " + s.variant[m.variant].Render(string(m.variant)) + " toast " + s.muted.Render("(tab: variant, enter: send, esc: cancel)")
		if m.err != "" {
			title += "\n" + s.errorMsg.Render(m.err)
		}
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		b.WriteString("\n")
		b.WriteString(bar.Render(title + "\n" + m.ti.View()))
	}
	return s.border.Render(b.String())
}

// header shows live counts per variant.
func (m Model) header() string {
	s := m.styles
	counts := make(map[model.Variant]int, len(model.Variants))
	for _, it := range m.list.Items() {
		if t, ok := it.(toastItem); ok {
			counts[t.Variant]++
		}
	}
	parts := []string{s.title.Render("Toasts")}
	for _, v := range model.Variants {
		parts = append(parts, fmt.Sprintf("%s %d", s.badge(v), counts[v]))
	}
	parts = append(parts, fmt.Sprintf("%s %d", s.accent.Render("Total"), len(m.list.Items())))
	return strings.Join(parts, "  ")
}
