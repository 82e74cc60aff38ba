package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/toast/internal/model"
)

// styles is the Lip Gloss palette for one theme.
type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	errorMsg lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
	border   lipgloss.Style
	variant  map[model.Variant]lipgloss.Style
	icon     map[model.Variant]string
	colors   map[model.Variant]string
	mono     bool
}

func newStyles(theme string) styles {
	s := styles{
		title:    lipgloss.NewStyle().Bold(true),
		muted:    lipgloss.NewStyle().Faint(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		help:     lipgloss.NewStyle().Faint(true),
		border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		icon: map[model.Variant]string{
			model.VariantInfo:    "ℹ",
			model.VariantSuccess: "✓",
			model.VariantWarning: "!",
			model.VariantError:   "×",
		},
		colors: map[model.Variant]string{
			model.VariantInfo:    "12",
			model.VariantSuccess: "42",
			model.VariantWarning: "214",
			model.VariantError:   "9",
		},
	}

	switch strings.ToLower(theme) {
	case "neon":
		s.title = s.title.Foreground(lipgloss.Color("201"))
		s.accent = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
		s.border = s.border.BorderForeground(lipgloss.Color("201"))
		s.colors = map[model.Variant]string{
			model.VariantInfo:    "51",
			model.VariantSuccess: "46",
			model.VariantWarning: "226",
			model.VariantError:   "197",
		}
	case "mono":
		s.mono = true
		s.accent = lipgloss.NewStyle()
		s.errorMsg = lipgloss.NewStyle().Bold(true)
		s.border = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
		s.icon = map[model.Variant]string{
			model.VariantInfo:    "i",
			model.VariantSuccess: "+",
			model.VariantWarning: "!",
			model.VariantError:   "x",
		}
	}

	s.variant = make(map[model.Variant]lipgloss.Style, len(model.Variants))
	for _, v := range model.Variants {
		st := lipgloss.NewStyle().Bold(true)
		if !s.mono {
			st = st.Foreground(lipgloss.Color(s.colors[v]))
		}
		s.variant[v] = st
	}
	return s
}

// badge renders a variant's icon in its color.
func (s styles) badge(v model.Variant) string {
	return s.variant[v].Render(s.icon[v])
}

// bar returns a progress bar for the time left on a toast of variant v.
func (s styles) bar(v model.Variant, width int) progress.Model {
	p := progress.New(
		progress.WithWidth(width),
		progress.WithoutPercentage(),
		progress.WithSolidFill(s.colors[v]),
	)
	if s.mono {
		p.Full, p.Empty = '#', '.'
		p.FullColor, p.EmptyColor = "", ""
	}
	return p
}
