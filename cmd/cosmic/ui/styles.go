// Package ui provides the terminal styling for the cosmic CLI, with
// light/dark mode support and one color per element and resonance band.
package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"cosmic/internal/types"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1b1740") // Deep indigo
	LightPrimary    = lipgloss.Color("#3f3590") // Violet
	LightAccent     = lipgloss.Color("#c99a2e") // Old gold
	LightMuted      = lipgloss.Color("#8a88a3")
	LightBorder     = lipgloss.Color("#d8d6e6")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#ecebf5")
	DarkPrimary    = lipgloss.Color("#e3b94f") // Gold (flipped)
	DarkAccent     = lipgloss.Color("#9d92ff") // Lavender
	DarkMuted      = lipgloss.Color("#6d6a88")
	DarkBorder     = lipgloss.Color("#2e2a4f")

	// Element Colors (same in both modes)
	FireColor  = lipgloss.Color("#e5533d")
	WaterColor = lipgloss.Color("#2f80ed")
	AirColor   = lipgloss.Color("#9bc1d9")
	EarthColor = lipgloss.Color("#7a9a3a")
	EtherColor = lipgloss.Color("#b07cd8")

	// Band Colors
	Harmonic    = lipgloss.Color("#8BC34A")
	Supportive  = lipgloss.Color("#4db6ac")
	Neutral     = lipgloss.Color("#9e9e9e")
	Challenging = lipgloss.Color("#FFC107")
	Dissonant   = lipgloss.Color("#e53935")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks dark mode from COLORFGBG or COSMIC_DARK_MODE=1, and
// light mode otherwise.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil {
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return DarkTheme()
			}
		}
	}
	if os.Getenv("COSMIC_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	Card    lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Width(14),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Harmonic).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Dissonant).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Challenging).
			Bold(true),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// ElementColor maps an element to its color. Unknown elements are neutral.
func ElementColor(e types.Element) lipgloss.Color {
	switch e {
	case types.Fire:
		return FireColor
	case types.Water:
		return WaterColor
	case types.Air:
		return AirColor
	case types.Earth:
		return EarthColor
	case types.Ether:
		return EtherColor
	}
	return Neutral
}

// BandColor maps a resonance band to its color.
func BandColor(b types.Band) lipgloss.Color {
	switch b {
	case types.BandHarmonic:
		return Harmonic
	case types.BandSupportive:
		return Supportive
	case types.BandChallenging:
		return Challenging
	case types.BandDissonant:
		return Dissonant
	}
	return Neutral
}

// Element renders an element as a colored badge.
func (s Styles) Element(e types.Element) string {
	return s.Badge.Background(ElementColor(e)).Render(string(e))
}

// Band renders a band name in its color.
func (s Styles) Band(b types.Band) string {
	return lipgloss.NewStyle().Foreground(BandColor(b)).Bold(true).Render(string(b))
}

// Row renders a "label value" line.
func (s Styles) Row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(label), s.Body.Render(value))
}

// Meter renders v in [0,1] as a bar of width cells followed by the value.
func (s Styles) Meter(v float64, width int) string {
	v = types.Clamp01(v)
	filled := int(v*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(s.Theme.Accent).Render(bar) + " " + s.Muted.Render(fmt.Sprintf("%.2f", v))
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", width))
}
