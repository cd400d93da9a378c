package heatmap

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asakatsu/internal/core"
)

func entry(date core.Date, projectID, seconds int64) core.Entry {
	return core.Entry{
		Start:     date.Time.Add(6 * time.Hour),
		Date:      date,
		ProjectID: projectID,
		Duration:  seconds,
	}
}

func sampleFrame() core.YearFrame {
	cats := core.CategoryMap{
		{Key: "training", ProjectID: 1, Label: "Training"},
		{Key: "books", ProjectID: 2, Label: "Books"},
	}
	entries := []core.Entry{
		entry(core.NewDate(2023, 1, 2), 1, 600),
		entry(core.NewDate(2023, 1, 5), 1, 2400),
		entry(core.NewDate(2023, 1, 6), 1, 0),
		entry(core.NewDate(2023, 3, 1), 2, 1200),
	}
	return core.BuildYearView(entries, 2023, cats)
}

func TestWeekAndWeekday(t *testing.T) {
	// 2023-01-01 is a Sunday.
	jan1 := core.NewDate(2023, 1, 1)
	assert.Equal(t, 6, Weekday(jan1))
	assert.Equal(t, 0, Week(jan1))
	assert.Equal(t, 0, Weekday(core.NewDate(2023, 1, 2)))
	assert.Equal(t, 1, Week(core.NewDate(2023, 1, 2)))
	assert.Equal(t, 52, Week(core.NewDate(2023, 12, 31)))
}

func TestLayout_WeekColumns(t *testing.T) {
	cal, err := Layout(sampleFrame(), "training")
	require.NoError(t, err)
	assert.Equal(t, 53, cal.Weeks)
	assert.Len(t, cal.Cells, 365)
	assert.Len(t, cal.Months, 12)
	assert.Equal(t, "Jan", cal.Months[0].Name)
	assert.Equal(t, 0, cal.Months[0].Week)

	// A leap year starting on Sunday spills into a 54th column.
	leap := core.BuildYearView(nil, 2012, core.CategoryMap{{Key: "x", ProjectID: 1, Label: "x"}})
	cal, err = Layout(leap, "x")
	require.NoError(t, err)
	assert.Equal(t, 54, cal.Weeks)
	assert.Len(t, cal.Cells, 366)
}

func TestLayout_UnknownCategory(t *testing.T) {
	_, err := Layout(sampleFrame(), "english")
	assert.Error(t, err)
}

func TestLevel(t *testing.T) {
	max := int64(2400)
	assert.Equal(t, Absent, Level(core.DayValue{}, max))
	assert.Equal(t, 0, Level(core.DayValue{Present: true}, max))
	assert.Equal(t, 1, Level(core.DayValue{Seconds: 1, Present: true}, max))
	assert.Equal(t, 1, Level(core.DayValue{Seconds: 600, Present: true}, max))
	assert.Equal(t, 2, Level(core.DayValue{Seconds: 1200, Present: true}, max))
	assert.Equal(t, 4, Level(core.DayValue{Seconds: 2400, Present: true}, max))
	assert.Equal(t, 0, Level(core.DayValue{Seconds: 10, Present: true}, 0))
}

func TestLayout_AbsentVersusZero(t *testing.T) {
	cal, err := Layout(sampleFrame(), "training")
	require.NoError(t, err)

	byDate := map[string]Cell{}
	for _, c := range cal.Cells {
		byDate[c.Date.String()] = c
	}
	assert.Equal(t, Absent, byDate["2023-01-03"].Level)
	assert.Equal(t, AbsentColor, byDate["2023-01-03"].Color())
	assert.Equal(t, 0, byDate["2023-01-06"].Level)
	assert.Equal(t, Greens[0], byDate["2023-01-06"].Color())
	assert.Equal(t, Greens[4], byDate["2023-01-05"].Color())
	assert.Equal(t, "2023-01-05: 40m", byDate["2023-01-05"].Title())
	assert.Equal(t, "2023-01-03: no entries", byDate["2023-01-03"].Title())
	assert.Equal(t, int64(3000), cal.Total)
	assert.Equal(t, 3, cal.ActiveDays)
}

func TestCellGeometry(t *testing.T) {
	c := Cell{Week: 2, Weekday: 3}
	assert.Equal(t, LeftMargin+2*(CellSize+CellGap), c.X())
	assert.Equal(t, TopMargin+3*(CellSize+CellGap), c.Y())

	cal := Calendar{Weeks: 53}
	assert.Equal(t, LeftMargin+53*(CellSize+CellGap), cal.Width())
	assert.Len(t, cal.DayLabels(), 4)
	assert.Len(t, Legend(), Levels+1)
}

func TestTerminal(t *testing.T) {
	out := TerminalFrame(sampleFrame())
	assert.Contains(t, out, "Training (2023)")
	assert.Contains(t, out, "Books (2023)")
	assert.Contains(t, out, "Mon")
	assert.Contains(t, out, "Jan")
	assert.Contains(t, out, presentGlyph)
	assert.Contains(t, out, absentGlyph)
	assert.Contains(t, out, "total 50m across 3 days")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleFrame()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 366)
	assert.Equal(t, "date,training,books", lines[0])
	assert.Equal(t, "2023-01-01,,", lines[1])
	assert.Equal(t, "2023-01-05,2400,", lines[5])
	assert.Equal(t, "2023-01-06,0,", lines[6])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleFrame()))

	var got jsonFrame
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2023, got.Year)
	require.Len(t, got.Series, 2)
	assert.Equal(t, "training", got.Series[0].Key)
	assert.Equal(t, int64(3000), got.Series[0].Total)
	assert.Equal(t, map[string]int64{"2023-01-02": 600, "2023-01-05": 2400, "2023-01-06": 0}, got.Series[0].Days)
	assert.Equal(t, map[string]int64{"2023-03-01": 1200}, got.Series[1].Days)
}
