package heatmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bytedance/sonic"

	"asakatsu/internal/core"
)

// WriteCSV writes one row per day with one column per category. Absent days
// are empty cells; present days carry their seconds.
func WriteCSV(w io.Writer, frame core.YearFrame) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(frame.Series)+1)
	header = append(header, "date")
	for _, s := range frame.Series {
		header = append(header, s.Category.Key)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(header))
	for i, d := range frame.Dates {
		row[0] = d.String()
		for j, s := range frame.Series {
			v := s.At(i)
			if v.Present {
				row[j+1] = strconv.FormatInt(v.Seconds, 10)
			} else {
				row[j+1] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", d, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type (
	jsonFrame struct {
		Year   int          `json:"year"`
		Series []jsonSeries `json:"series"`
	}

	jsonSeries struct {
		Key        string           `json:"key"`
		ProjectID  int64            `json:"project_id"`
		Label      string           `json:"label"`
		Total      int64            `json:"total_seconds"`
		ActiveDays int              `json:"active_days"`
		Days       map[string]int64 `json:"days"`
	}
)

// WriteJSON writes the frame keyed by category; absent days are omitted.
func WriteJSON(w io.Writer, frame core.YearFrame) error {
	out := jsonFrame{Year: frame.Year, Series: make([]jsonSeries, 0, len(frame.Series))}
	for _, s := range frame.Series {
		js := jsonSeries{
			Key:        s.Category.Key,
			ProjectID:  s.Category.ProjectID,
			Label:      s.Category.Label,
			Total:      s.Total(),
			ActiveDays: s.ActiveDays(),
			Days:       make(map[string]int64),
		}
		for i, d := range frame.Dates {
			if v := s.At(i); v.Present {
				js.Days[d.String()] = v.Seconds
			}
		}
		out.Series = append(out.Series, js)
	}
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
