// Package profile holds the sidebar content of the dashboard: an image
// caption and titled link sections, each with an optional collapsible list.
package profile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bytedance/sonic"
)

type (
	Link struct {
		Label string `json:"label"`
		URL   string `json:"url"`
	}

	// Group is a collapsible list under a section, closed by default.
	Group struct {
		Title string `json:"title"`
		Links []Link `json:"links"`
	}

	Section struct {
		Title string `json:"title"`
		Links []Link `json:"links"`
		More  *Group `json:"more,omitempty"`
	}

	Profile struct {
		Caption  string    `json:"caption"`
		Sections []Section `json:"sections"`
	}
)

// Load reads a profile JSON file. A missing file is an empty profile.
func Load(path string) (Profile, error) {
	if path == "" {
		return Profile{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a profile document.
func Parse(data []byte) (Profile, error) {
	var p Profile
	if err := sonic.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks that every section has a title and every link an
// absolute http(s) URL.
func (p Profile) Validate() error {
	var problems []string
	for i, s := range p.Sections {
		if strings.TrimSpace(s.Title) == "" {
			problems = append(problems, fmt.Sprintf("section %d: title is empty", i+1))
		}
		problems = append(problems, checkLinks(s.Title, s.Links)...)
		if s.More != nil {
			if strings.TrimSpace(s.More.Title) == "" {
				problems = append(problems, fmt.Sprintf("section %q: more list title is empty", s.Title))
			}
			problems = append(problems, checkLinks(s.Title+" > "+s.More.Title, s.More.Links)...)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid profile:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func checkLinks(where string, links []Link) []string {
	var out []string
	for _, l := range links {
		if strings.TrimSpace(l.Label) == "" {
			out = append(out, fmt.Sprintf("%s: link %q has no label", where, l.URL))
		}
		u, err := url.Parse(l.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			out = append(out, fmt.Sprintf("%s: invalid URL %q", where, l.URL))
		}
	}
	return out
}

// WithLinks puts a section of flat links in front of the file sections.
func (p Profile) WithLinks(title string, links []Link) Profile {
	if len(links) == 0 {
		return p
	}
	out := Profile{Caption: p.Caption}
	out.Sections = append([]Section{{Title: title, Links: links}}, p.Sections...)
	return out
}

// Empty reports whether there is nothing to show besides the image.
func (p Profile) Empty() bool {
	return p.Caption == "" && len(p.Sections) == 0
}
