package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/trek/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill renders a trip status with its label, e.g. "● 進行中".
func StatusPill(status domain.TripStatus) string {
	label := "● " + status.Label()
	switch status {
	case domain.TripPlanning:
		return StyleBlue.Render(label)
	case domain.TripOngoing:
		return StyleYellow.Render(label)
	case domain.TripCompleted:
		return StyleGreen.Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// SourceBadge marks where an itinerary came from. Generated plans get no
// badge.
func SourceBadge(src domain.PlanSource) string {
	switch src {
	case domain.SourceTemplate:
		return StyleYellow.Render("[範本行程]")
	case domain.SourceGeneric:
		return StyleRed.Render("[通用行程]")
	default:
		return ""
	}
}

// Header renders a section header with an underline as wide as the text.
func Header(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(text), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
