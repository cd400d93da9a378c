package heatmap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"asakatsu/internal/core"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#31a354"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

const (
	presentGlyph = "■"
	absentGlyph  = "·"
)

// Terminal renders a calendar as coloured text, one line per weekday.
func Terminal(cal Calendar) string {
	grid := make([][]string, 7)
	for i := range grid {
		grid[i] = make([]string, cal.Weeks)
		for w := range grid[i] {
			grid[i][w] = " "
		}
	}
	for _, c := range cal.Cells {
		glyph := presentGlyph
		if c.Level == Absent {
			glyph = absentGlyph
		}
		grid[c.Weekday][c.Week] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Color())).
			Render(glyph)
	}

	header := []rune(strings.Repeat(" ", cal.Weeks))
	for _, m := range cal.Months {
		for i, r := range m.Name {
			if m.Week+i < len(header) {
				header[m.Week+i] = r
			}
		}
	}

	rowNames := []string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}
	var b strings.Builder
	b.WriteString(labelStyle.Render("    " + string(header)))
	b.WriteByte('\n')
	for i, row := range grid {
		b.WriteString(labelStyle.Render(rowNames[i] + " "))
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	b.WriteString(summaryStyle.Render(fmt.Sprintf("total %s across %d days, best day %s",
		core.FormatSeconds(cal.Total), cal.ActiveDays, core.FormatSeconds(cal.Max))))

	title := titleStyle.Render(fmt.Sprintf("%s (%d)", cal.Category.Label, cal.Year))
	return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(b.String()))
}

// TerminalFrame renders every category of the frame, in frame order.
func TerminalFrame(frame core.YearFrame) string {
	parts := make([]string, 0, len(frame.Series))
	for _, s := range frame.Series {
		parts = append(parts, Terminal(LayoutSeries(frame.Year, frame.Dates, s)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
