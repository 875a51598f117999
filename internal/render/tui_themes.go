// Package render provides markdown rendering and colour themes for the terminal interface.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string
	Dark        bool // whether the palette is meant for dark mode

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in dark themes
var (
	// TokyoNightTheme is the default dark theme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",
		Dark:        true,

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",
		Dark:        true,

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#a6e3a1"),
		Accent:    lipgloss.Color("#cba6f7"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",
		Dark:        true,

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"),
		Secondary: lipgloss.Color("#a3be8c"),
		Accent:    lipgloss.Color("#b48ead"),
		Warning:   lipgloss.Color("#ebcb8b"),
		Error:     lipgloss.Color("#bf616a"),

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula - Dark theme with vibrant colors",
		Dark:        true,

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		Primary:   lipgloss.Color("#8be9fd"),
		Secondary: lipgloss.Color("#50fa7b"),
		Accent:    lipgloss.Color("#ff79c6"),
		Warning:   lipgloss.Color("#f1fa8c"),
		Error:     lipgloss.Color("#ff5555"),

		Text:     lipgloss.Color("#f8f8f2"),
		TextDim:  lipgloss.Color("#6272a4"),
		TextMute: lipgloss.Color("#44475a"),
	}
)

// Built-in light themes
var (
	// DaylightTheme is the default light theme, a chat-app palette with blue user bubbles
	DaylightTheme = TUITheme{
		Name:        "daylight",
		Description: "Daylight - Light theme with messenger blue accents",
		Dark:        false,

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f3f4f6"),
		Border:     lipgloss.Color("#d1d5db"),

		Primary:   lipgloss.Color("#374151"),
		Secondary: lipgloss.Color("#0084ff"),
		Accent:    lipgloss.Color("#0069c7"),
		Warning:   lipgloss.Color("#b45309"),
		Error:     lipgloss.Color("#dc2626"),

		Text:     lipgloss.Color("#111827"),
		TextDim:  lipgloss.Color("#6b7280"),
		TextMute: lipgloss.Color("#9ca3af"),
	}

	LatteTheme = TUITheme{
		Name:        "latte",
		Description: "Catppuccin Latte - Soft light theme",
		Dark:        false,

		Background: lipgloss.Color("#eff1f5"),
		Surface:    lipgloss.Color("#ccd0da"),
		Border:     lipgloss.Color("#bcc0cc"),

		Primary:   lipgloss.Color("#1e66f5"),
		Secondary: lipgloss.Color("#40a02b"),
		Accent:    lipgloss.Color("#8839ef"),
		Warning:   lipgloss.Color("#df8e1d"),
		Error:     lipgloss.Color("#d20f39"),

		Text:     lipgloss.Color("#4c4f69"),
		TextDim:  lipgloss.Color("#6c6f85"),
		TextMute: lipgloss.Color("#9ca0b0"),
	}
)

// currentTUITheme holds the currently active TUI theme
var currentTUITheme = DaylightTheme

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
		return true
	}
	return false
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// ThemeFor picks the palette for the given mode. Unknown names, or a name
// whose palette belongs to the other mode, fall back to that mode's default.
func ThemeFor(dark bool, darkName, lightName string) TUITheme {
	name, fallback := lightName, DaylightTheme
	if dark {
		name, fallback = darkName, TokyoNightTheme
	}

	theme, ok := GetTUIThemeByName(name)
	if !ok || theme.Dark != dark {
		return fallback
	}
	return theme
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		CatppuccinMochaTheme,
		NordTheme,
		DraculaTheme,
		DaylightTheme,
		LatteTheme,
	}
}

// TUIThemeNames returns the names of themes for the given mode
func TUIThemeNames(dark bool) []string {
	var names []string
	for _, t := range AvailableTUIThemes() {
		if t.Dark == dark {
			names = append(names, t.Name)
		}
	}
	return names
}
