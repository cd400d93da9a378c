package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"asakatsu/internal/core"
)

var requiredHeaders = []string{"start", "stop", "project_id", "duration"}

// parseEntries converts a values matrix (as returned by Sheets API) into time
// entries. The first row is the header; columns are found by name, so their
// order in the sheet does not matter. Blank rows are skipped.
func parseEntries(values [][]interface{}) ([]core.TimeEntry, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	cols := make(map[string]int, len(requiredHeaders))
	var missing []string
	for _, h := range requiredHeaders {
		idx := indexOf(headers, h)
		if idx == -1 {
			missing = append(missing, h)
			continue
		}
		cols[h] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected entries header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	out := make([]core.TimeEntry, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		startStr := safeGet(row, cols["start"])
		if startStr == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse start %q: %w", i+1, startStr, err)
		}
		e := core.TimeEntry{Start: start}
		if stopStr := safeGet(row, cols["stop"]); stopStr != "" {
			stop, err := time.Parse(time.RFC3339, stopStr)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse stop %q: %w", i+1, stopStr, err)
			}
			e.Stop = &stop
		}
		if idStr := safeGet(row, cols["project_id"]); idStr != "" {
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse project_id %q: %w", i+1, idStr, err)
			}
			e.ProjectID = id
		}
		if durStr := safeGet(row, cols["duration"]); durStr != "" {
			d, err := strconv.ParseInt(durStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse duration %q: %w", i+1, durStr, err)
			}
			e.Duration = d
		}
		out = append(out, e)
	}
	return out, nil
}

// toStrings renders every cell as text. Numeric cells (UNFORMATTED_VALUE
// responses) are printed without exponent so large project ids survive.
func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx >= 0 && idx < len(arr) {
		return strings.TrimSpace(arr[idx])
	}
	return ""
}
