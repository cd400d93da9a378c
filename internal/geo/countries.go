package geo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Country is one row of the countries list: a display name and its ISO
// 3166-1 alpha-3 code, which is what the world boundaries use as feature id.
type Country struct {
	Name string
	Code string
}

// LoadCountries reads a two column (country, code) CSV with a header row.
func LoadCountries(path string) ([]Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open countries file: %w", err)
	}
	defer f.Close()
	countries, err := ParseCountries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return countries, nil
}

// ParseCountries parses the countries CSV. Rows are deduplicated by code
// (first name wins) and returned sorted by code. Rows without a usable
// alpha-3 code are skipped with a warning; they could not colour any
// feature anyway.
func ParseCountries(r io.Reader) ([]Country, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	seen := make(map[string]struct{})
	var out []Country
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) < 2 {
			if len(rec) == 1 && strings.TrimSpace(rec[0]) != "" {
				slog.Warn("Skipping country row without code", "line", line, "row", rec[0])
			}
			continue
		}
		name := strings.TrimSpace(rec[0])
		code := strings.ToUpper(strings.TrimSpace(rec[1]))
		if code == "" {
			continue
		}
		if !isAlpha3(code) {
			slog.Warn("Skipping country row with invalid code", "line", line, "country", name, "code", code)
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, Country{Name: name, Code: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func isAlpha3(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Codes returns the set of country codes.
func Codes(countries []Country) map[string]struct{} {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[c.Code] = struct{}{}
	}
	return set
}
