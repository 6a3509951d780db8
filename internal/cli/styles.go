// Package cli renders classification results for the terminal and handles
// interrupts, confirmations and progress for long batches.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/payee-classifier/internal/model"
)

// Palette.
var (
	PrimaryColor    = lipgloss.Color("#5B8DEF")
	BusinessColor   = lipgloss.Color("#4ECDC4")
	IndividualColor = lipgloss.Color("#F7B267")
	WarningColor    = lipgloss.Color("#FFE66D")
	ErrorColor      = lipgloss.Color("#FF6B6B")
	SubtleColor     = lipgloss.Color("#666666")
	borderColor     = lipgloss.Color("#333")
)

var (
	TitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	BoldStyle       = lipgloss.NewStyle().Bold(true)
	SubtleStyle     = lipgloss.NewStyle().Foreground(SubtleColor)
	BusinessStyle   = lipgloss.NewStyle().Bold(true).Foreground(BusinessColor)
	IndividualStyle = lipgloss.NewStyle().Bold(true).Foreground(IndividualColor)
	// ReviewStyle flags confidences below the review threshold.
	ReviewStyle = lipgloss.NewStyle().Foreground(WarningColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

var (
	successStyle = lipgloss.NewStyle().Foreground(BusinessColor)
	warningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	infoStyle    = lipgloss.NewStyle().Foreground(PrimaryColor)
)

func message(style lipgloss.Style, icon, msg string) string {
	return style.Render(icon + " " + msg)
}

// FormatSuccess prefixes a check mark.
func FormatSuccess(msg string) string { return message(successStyle, "✓", msg) }

// FormatError prefixes a cross.
func FormatError(msg string) string { return message(errorStyle, "✗", msg) }

// FormatWarning prefixes a warning sign.
func FormatWarning(msg string) string { return message(warningStyle, "⚠️", msg) }

// FormatInfo prefixes an info sign.
func FormatInfo(msg string) string { return message(infoStyle, "ℹ️", msg) }

// FormatTitle renders a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatPrompt renders a question awaiting input.
func FormatPrompt(prompt string) string {
	return TitleStyle.Render(prompt + " → ")
}

// FormatConfidence renders a confidence percentage, highlighting values that
// need manual review.
func FormatConfidence(confidence int) string {
	text := fmt.Sprintf("%d%%", confidence)
	if confidence < model.ConfidenceReviewRequired {
		return ReviewStyle.Render(text)
	}
	return text
}

// RenderBox draws content in a rounded box under title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), "", content))
}
