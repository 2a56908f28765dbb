package domain

import "strings"

// Theme is the light/dark UI preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips between light and dark. Anything unknown becomes dark,
// matching a toggle pressed from the light default.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme normalizes user input; unknown values fall back to light.
func ParseTheme(raw string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeDark:
		return ThemeDark
	default:
		return ThemeLight
	}
}
