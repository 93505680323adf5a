package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Theme registry for the application
var Theme *tint.Registry

// Common style elements used across all views
var (
	// Title styles
	TitleStyle            lipgloss.Style
	TitleWithPaddingStyle lipgloss.Style
	SubtitleStyle         lipgloss.Style

	// Label styles
	ActiveLabelStyle    lipgloss.Style
	InactiveLabelStyle  lipgloss.Style
	ErrorMessageStyle   lipgloss.Style
	statusBarStyle      lipgloss.Style
	helpStyle           lipgloss.Style
	HelpTextSimpleStyle lipgloss.Style
	ActiveButtonStyle   lipgloss.Style
	InactiveButtonStyle lipgloss.Style

	// Message styles
	UserMessageLabelStyle        lipgloss.Style
	AssistantMessageLabelStyle   lipgloss.Style
	UserMessageContentStyle      lipgloss.Style
	AssistantMessageContentStyle lipgloss.Style
	TimestampStyle               lipgloss.Style
	MetadataStyle                lipgloss.Style
	SpinnerStyle                 lipgloss.Style
	ComposingStyle               lipgloss.Style
	ViewportBorderStyle          lipgloss.Style
	ScrollIndicatorStyle         lipgloss.Style

	// Source badges and quick questions
	SourceLabelStyle        lipgloss.Style
	SourceBadgeStyle        lipgloss.Style
	QuickQuestionTitleStyle lipgloss.Style
	QuickQuestionStyle      lipgloss.Style
	DocumentCountStyle      lipgloss.Style

	// Documents overlay styles
	OverlayBorderStyle       lipgloss.Style
	OverlayTitleStyle        lipgloss.Style
	OverlayMessageStyle      lipgloss.Style
	OverlaySelectedItemStyle lipgloss.Style
	OverlayNormalItemStyle   lipgloss.Style
	OverlayDimmedItemStyle   lipgloss.Style
	OverlayFilterLabelStyle  lipgloss.Style
	StatusCompletedStyle     lipgloss.Style
	StatusProcessingStyle    lipgloss.Style
	StatusErrorStyle         lipgloss.Style
)

func init() {
	// Initialize with Tint theme
	tint.NewDefaultRegistry()
	tint.SetTint(tint.TintChalk)
	Theme = tint.DefaultRegistry

	// Initialize styles after tint is set up
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(tint.Blue())

	TitleWithPaddingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(tint.Blue()).
		Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 1)

	// Label styles
	ActiveLabelStyle = lipgloss.NewStyle().
		Foreground(tint.White()).
		Bold(true)

	InactiveLabelStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	// Error styles
	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(tint.Red())

	// Status bar styles
	statusBarStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 1)

	// Help text styles
	helpStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(1, 0, 0, 1)

	HelpTextSimpleStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	// Button styles
	ActiveButtonStyle = lipgloss.NewStyle().
		Foreground(tint.Bg()).
		Background(tint.Blue()).
		Bold(true)

	InactiveButtonStyle = lipgloss.NewStyle().
		Foreground(tint.Blue())

	// Message styles (for chat messages)
	UserMessageLabelStyle = lipgloss.NewStyle().
		Foreground(tint.Blue()).
		Bold(true)

	AssistantMessageLabelStyle = lipgloss.NewStyle().
		Foreground(tint.Green()).
		Bold(true)

	UserMessageContentStyle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 1).
		MarginBottom(1)

	AssistantMessageContentStyle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 1).
		MarginBottom(1)

	TimestampStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	// Metadata/info styles
	MetadataStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	// Spinner and typing indicator
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(tint.Green())

	ComposingStyle = lipgloss.NewStyle().
		Foreground(tint.Green()).
		Italic(true)

	// Border styles
	ViewportBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.White()).
		Padding(0, 1)

	// Scroll indicator style
	ScrollIndicatorStyle = lipgloss.NewStyle().
		Foreground(tint.White())

	// Source badges under assistant messages
	SourceLabelStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	SourceBadgeStyle = lipgloss.NewStyle().
		Foreground(tint.Blue()).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(tint.Blue()).
		Padding(0, 1)

	// Quick questions
	QuickQuestionTitleStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 1)

	QuickQuestionStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		Padding(0, 1)

	DocumentCountStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow())

	// Documents overlay styles
	OverlayBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tint.Yellow()).
		Padding(1, 2)

	OverlayTitleStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		Bold(true)

	OverlayMessageStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Align(lipgloss.Center)

	OverlaySelectedItemStyle = lipgloss.NewStyle().
		Foreground(tint.Blue()).
		Background(tint.BrightBlack()).
		Bold(true)

	OverlayNormalItemStyle = lipgloss.NewStyle().
		Foreground(tint.Fg())

	OverlayDimmedItemStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	OverlayFilterLabelStyle = lipgloss.NewStyle().
		Foreground(tint.White()).
		Bold(true)

	// Document status markers
	StatusCompletedStyle = lipgloss.NewStyle().
		Foreground(tint.Green())

	StatusProcessingStyle = lipgloss.NewStyle().
		Foreground(tint.Yellow())

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(tint.Red())
}

// Helper functions for dynamic styles

// ConfigureListStyles configures all list styles to match the application theme
func ConfigureListStyles(l *list.Model) {
	// Title styles
	l.Styles.Title = TitleStyle
	l.Styles.TitleBar = lipgloss.NewStyle().
		Padding(0, 0, 1, 0)

	// Pagination styles
	l.Styles.PaginationStyle = lipgloss.NewStyle().
		Foreground(tint.BrightBlack())

	// Help styles
	l.Styles.HelpStyle = helpStyle

	// Filter styles
	l.Styles.FilterPrompt = lipgloss.NewStyle().
		Foreground(tint.Yellow())
	l.Styles.FilterCursor = lipgloss.NewStyle().
		Foreground(tint.Blue())

	// Status bar
	l.Styles.StatusBar = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 0, 1, 0)
}

// CreateThemedDelegate creates a themed list delegate with application colors
func CreateThemedDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	// Configure item styles
	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(tint.Blue()).
		Bold(true).
		BorderLeft(true).
		BorderForeground(tint.Blue()).
		Padding(0, 0, 0, 1)

	d.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(tint.Yellow()).
		BorderLeft(true).
		BorderForeground(tint.Blue()).
		Padding(0, 0, 0, 1)

	d.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(tint.Fg()).
		Padding(0, 0, 0, 2)

	d.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(tint.BrightBlack()).
		Padding(0, 0, 0, 2)

	return d
}

// RenderFieldLabel renders a field label with the appropriate style
func RenderFieldLabel(label string, isActive bool) string {
	if isActive {
		return ActiveLabelStyle.Render(label)
	}
	return InactiveLabelStyle.Render(label)
}

// RenderButton renders a button with the appropriate style
func RenderButton(label string, isActive bool) string {
	if isActive {
		return ActiveButtonStyle.Render(" " + label + " ")
	}
	return InactiveButtonStyle.Render("[ " + label + " ]")
}

// RenderError renders an error message
func RenderError(msg string) string {
	return ErrorMessageStyle.Render("  ✗ " + msg)
}

// RenderViewportWithBorder renders content with a viewport border style
func RenderViewportWithBorder(content string) string {
	return ViewportBorderStyle.Render(content)
}

// GetUserMessageContentStyle right-aligns user messages like a chat bubble
func GetUserMessageContentStyle(width int) lipgloss.Style {
	return UserMessageContentStyle.
		Width(width - 10).
		Align(lipgloss.Right)
}

// GetAssistantMessageContentStyle returns a style for assistant message content with given width
func GetAssistantMessageContentStyle(width int) lipgloss.Style {
	return AssistantMessageContentStyle.
		Width(width - 10)
}

// GetOverlayBorderStyle returns the overlay border style with dynamic width
func GetOverlayBorderStyle(width int) lipgloss.Style {
	return OverlayBorderStyle.Width(width - 4)
}

// GetOverlayItemStyle returns the item style with dynamic width
func GetOverlayItemStyle(width int, selected bool) lipgloss.Style {
	if selected {
		return OverlaySelectedItemStyle.Width(width - 8)
	}
	return OverlayNormalItemStyle.Width(width - 8)
}
