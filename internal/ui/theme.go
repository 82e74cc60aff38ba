package ui

import (
	"strings"

	"github.com/idilsaglam/toast/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent                   string
	Info, Success, Warning, Error          string
	IconInfo, IconSuccess                  string
	IconWarning, IconError                 string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	BarFull, BarEmpty                      string
}

var current = classic()

// Themes lists the names SetTheme accepts.
var Themes = []string{"classic", "neon", "mono"}

func SetTheme(name string) {
	disableColor = false
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Info: "\033[96m", Success: "\033[92m", Warning: "\033[93m", Error: "\033[91m",
			IconInfo: "◆", IconSuccess: "◆", IconWarning: "◆", IconError: "◆",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			BarFull: "▰", BarEmpty: "▱",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:     "mono",
			IconInfo: "i", IconSuccess: "+", IconWarning: "!", IconError: "x",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			BarFull: "#", BarEmpty: ".",
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Info: fgBlue, Success: fgGreen, Warning: fgYellow, Error: fgRed,
		IconInfo: "ℹ", IconSuccess: "✓", IconWarning: "!", IconError: "×",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		BarFull: "█", BarEmpty: "░",
	}
}

// Expose what renderers need
func Current() Theme { return current }

// Color returns the palette entry for v.
func (t Theme) Color(v model.Variant) string {
	switch v {
	case model.VariantSuccess:
		return t.Success
	case model.VariantWarning:
		return t.Warning
	case model.VariantError:
		return t.Error
	}
	return t.Info
}

// Icon returns the symbol for v.
func (t Theme) Icon(v model.Variant) string {
	switch v {
	case model.VariantSuccess:
		return t.IconSuccess
	case model.VariantWarning:
		return t.IconWarning
	case model.VariantError:
		return t.IconError
	}
	return t.IconInfo
}
