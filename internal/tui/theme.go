package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/miaoxn/soliditytool/internal/logsink"
)

// Theme is the set of styles the debugger renders with.
type Theme struct {
	Name string

	root        lipgloss.Style
	header      lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	cursor      lipgloss.Style
	muted       lipgloss.Style
	note        lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	spinner     lipgloss.Style

	severity map[logsink.Severity]lipgloss.Style
}

type palette struct {
	accent  lipgloss.Color
	accent2 lipgloss.Color
	bg      lipgloss.Color
	panelBg lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	success lipgloss.Color
	warning lipgloss.Color
	danger  lipgloss.Color
}

// Themes holds the selectable colour themes by name.
var Themes = map[string]Theme{
	"dark": newTheme("dark", palette{
		accent:  "#7D56F4",
		accent2: "#01cdfe",
		bg:      "#1a1b26",
		panelBg: "#24283b",
		text:    "#c0caf5",
		muted:   "#737aa2",
		success: "#04B575",
		warning: "#e0af68",
		danger:  "#f7768e",
	}),
	"light": newTheme("light", palette{
		accent:  "#5a3fc0",
		accent2: "#0077aa",
		bg:      "#fafafa",
		panelBg: "#f0f0f0",
		text:    "#24292f",
		muted:   "#6e7781",
		success: "#1a7f37",
		warning: "#9a6700",
		danger:  "#cf222e",
	}),
	"ocean": newTheme("ocean", palette{
		accent:  "#05ffa1",
		accent2: "#4fd6be",
		bg:      "#0b1d2e",
		panelBg: "#112b40",
		text:    "#d6f1ff",
		muted:   "#6f93ad",
		success: "#05ffa1",
		warning: "#ffd166",
		danger:  "#ff6b6b",
	}),
}

// ThemeNames lists the theme names in a stable order.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookupTheme falls back to the dark theme for unknown names.
func lookupTheme(name string) Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Themes["dark"]
}

// nextTheme returns the theme after name in ThemeNames order.
func nextTheme(name string) Theme {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return Themes[names[(i+1)%len(names)]]
		}
	}
	return Themes[names[0]]
}

func newTheme(name string, p palette) Theme {
	return Theme{
		Name: name,
		root: lipgloss.NewStyle().
			Background(p.bg).
			Foreground(p.text),
		header: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.accent),
		tabActive: lipgloss.NewStyle().
			Background(p.accent).
			Foreground(p.bg).
			Bold(true).
			Padding(0, 2),
		tabInactive: lipgloss.NewStyle().
			Background(p.panelBg).
			Foreground(p.muted).
			Padding(0, 2),
		panel: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.muted),
		panelTitle: lipgloss.NewStyle().
			Foreground(p.accent2).
			Bold(true),
		cursor:      lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		muted:       lipgloss.NewStyle().Foreground(p.muted),
		note:        lipgloss.NewStyle().Foreground(p.warning),
		status:      lipgloss.NewStyle().Foreground(p.accent2).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		spinner:     lipgloss.NewStyle().Foreground(p.success),
		severity: map[logsink.Severity]lipgloss.Style{
			logsink.Info:    lipgloss.NewStyle().Foreground(p.accent2),
			logsink.Success: lipgloss.NewStyle().Foreground(p.success),
			logsink.Error:   lipgloss.NewStyle().Foreground(p.danger),
			logsink.Warning: lipgloss.NewStyle().Foreground(p.warning),
		},
	}
}
