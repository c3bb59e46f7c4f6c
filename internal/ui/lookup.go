package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"studysmart/internal/core"
)

// PriorityDisplay is how a priority is shown.
type PriorityDisplay struct {
	Title string
	Color lipgloss.Color
}

var priorities = map[core.Priority]PriorityDisplay{
	core.PriorityLow:    {Title: "Low", Color: cGood},
	core.PriorityMedium: {Title: "Medium", Color: cWarn},
	core.PriorityHigh:   {Title: "High", Color: cBad},
}

// Priority returns the display attributes of p. Unknown values show as
// medium.
func Priority(p core.Priority) PriorityDisplay {
	if d, ok := priorities[p]; ok {
		return d
	}
	return priorities[core.PriorityMedium]
}

// PriorityBadge renders the priority title in its colour.
func PriorityBadge(p core.Priority) string {
	d := Priority(p)
	return lipgloss.NewStyle().Bold(true).Foreground(d.Color).Render(d.Title)
}

// DateFormat is the layout of due dates and session dates.
const DateFormat = "02 Jan 2006"

// FormatDate renders epoch milliseconds in loc. A zero value renders as a
// dash.
func FormatDate(millis int64, loc *time.Location) string {
	if millis == 0 {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(millis).In(loc).Format(DateFormat)
}

// ParseDate parses a DateFormat or ISO (2006-01-02) date at midnight in
// loc and returns epoch milliseconds.
func ParseDate(s string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{"2006-01-02", DateFormat} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, core.NewValidationError("due_date", fmt.Sprintf("invalid date %q, use YYYY-MM-DD", s))
}

// Hours renders hours with two decimals and a unit.
func Hours(h float64) string {
	return core.FormatHours(h) + " hr"
}

// Swatch renders a small block in the subject's start and end colours.
func Swatch(c core.ColorPair) string {
	start := lipgloss.NewStyle().Foreground(argb(c.Start)).Render("█")
	end := lipgloss.NewStyle().Foreground(argb(c.End)).Render("█")
	return start + end
}

// argb drops the alpha channel of a 0xAARRGGBB colour.
func argb(v uint32) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%06X", v&0xFFFFFF))
}
