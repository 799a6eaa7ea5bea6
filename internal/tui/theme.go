package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors must read on both light and dark terminals, so everything goes
// through lipgloss.AdaptiveColor and faint text is only used on dark
// backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted         lipgloss.TerminalColor = ac("240", "243")
	colorChromeMutedFg lipgloss.TerminalColor = ac("240", "245")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorInputBg   lipgloss.TerminalColor = ac("254", "234")

	colorAccent   lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg lipgloss.TerminalColor = ac("255", "235")

	colorBorder        lipgloss.TerminalColor = ac("250", "240")
	colorFocusedBorder lipgloss.TerminalColor = ac("27", "62")

	colorErrorFg lipgloss.TerminalColor = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg)
}

func stylePane(focused bool) lipgloss.Style {
	border := colorBorder
	if focused {
		border = colorFocusedBorder
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
// termenv.EnvColorProfile honors CLICOLOR, which would switch colors off
// inside a full-screen app; only NO_COLOR is respected here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Detection under-reports on some terminals; trust TERM/COLORTERM when they claim more.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the light or dark palette.
//
// Priority:
// 1) RECIPEKEEPER_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("RECIPEKEEPER_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
