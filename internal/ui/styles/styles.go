// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#2D2D2D", Dark: "#CCCCCC"} // Field values
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // Field labels
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholder

	// Semantic color names - Accent and borders
	AccentColor        = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFC300"} // Active tab, focus
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success states
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Rate-limit notices
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	// Tab bar
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true).
			Padding(0, 2)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor).
				Padding(0, 2)

	// Result fields
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true).
				MarginTop(1)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	FieldValueStyle = lipgloss.NewStyle().
			Foreground(TextPrimaryColor)

	// Input box
	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)

	InputBoxFocusedStyle = InputBoxStyle.
				BorderForeground(AccentColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)

	// Placeholder shown before the first lookup
	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Padding(1, 2)

	// Lookup-in-progress text next to the spinner
	LoadingStyle = lipgloss.NewStyle().
			Foreground(StatusWarningColor)

	// Held-result badge in the status bar
	ResultBadgeStyle = lipgloss.NewStyle().
				Foreground(StatusSuccessColor)

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFC300"}
)

// ApplyTheme applies custom theme colors from configuration.
// Empty strings are ignored, keeping the default values.
func ApplyTheme(highlight, subtle, errorColor, success string) {
	if highlight != "" {
		AccentColor = lipgloss.AdaptiveColor{Light: highlight, Dark: highlight}
		SpinnerColor = lipgloss.AdaptiveColor{Light: highlight, Dark: highlight}
	}
	if subtle != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: subtle, Dark: subtle}
		BorderDefaultColor = lipgloss.AdaptiveColor{Light: subtle, Dark: subtle}
	}
	if errorColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
		ToastBorderErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
	}
	if success != "" {
		StatusSuccessColor = lipgloss.AdaptiveColor{Light: success, Dark: success}
		ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: success, Dark: success}
	}

	// Dependent styles pick up the new colors.
	TabActiveStyle = TabActiveStyle.Foreground(AccentColor)
	TabInactiveStyle = TabInactiveStyle.Foreground(TextMutedColor)
	SectionTitleStyle = SectionTitleStyle.Foreground(AccentColor)
	InputBoxStyle = InputBoxStyle.BorderForeground(BorderDefaultColor)
	InputBoxFocusedStyle = InputBoxFocusedStyle.BorderForeground(AccentColor)
	StatusBarStyle = StatusBarStyle.Foreground(TextMutedColor)
	ErrorStyle = ErrorStyle.Foreground(StatusErrorColor)
	EmptyStateStyle = EmptyStateStyle.Foreground(TextMutedColor)
	ResultBadgeStyle = ResultBadgeStyle.Foreground(StatusSuccessColor)
}
