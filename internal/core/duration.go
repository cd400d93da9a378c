package core

import "fmt"

// FormatSeconds renders a duration the way the dashboard shows it: "2h 05m", "45m", "<1m".
func FormatSeconds(s int64) string {
	if s < 0 {
		return "-" + FormatSeconds(-s)
	}
	if s == 0 {
		return "0m"
	}
	if s < 60 {
		return "<1m"
	}
	h := s / 3600
	m := (s % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
