package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is one activity bucket: a project id in the tracker and a label in the UI.
type Category struct {
	Key       string
	ProjectID int64
	Label     string
}

// CategoryMap is the ordered set of categories shown on the dashboard.
type CategoryMap []Category

// DefaultCategoryMap returns the categories of the original morning routine profile,
// in the order the panels are rendered.
func DefaultCategoryMap() CategoryMap {
	return CategoryMap{
		{Key: "training", ProjectID: 187670676, Label: "トレーニング"},
		{Key: "books", ProjectID: 187670687, Label: "読書・オーディオブック"},
		{Key: "english", ProjectID: 187670686, Label: "英語学習"},
		{Key: "self_study", ProjectID: 187670689, Label: "プログラミング・その他"},
	}
}

// ParseCategoryMap parses "key:id:label" items separated by commas.
// The label is optional and defaults to the key.
func ParseCategoryMap(s string) (CategoryMap, error) {
	var out CategoryMap
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("category %q: expected key:id[:label]", item)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", item, ErrInvalidProjectID)
		}
		c := Category{Key: strings.TrimSpace(parts[0]), ProjectID: id}
		if len(parts) == 3 {
			c.Label = strings.TrimSpace(parts[2])
		}
		if c.Label == "" {
			c.Label = c.Key
		}
		out = append(out, c)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate rejects empty keys, non-positive ids and duplicates of either.
func (m CategoryMap) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("no categories configured")
	}
	keys := make(map[string]struct{}, len(m))
	ids := make(map[int64]struct{}, len(m))
	for _, c := range m {
		if strings.TrimSpace(c.Key) == "" {
			return ErrEmptyCategoryKey
		}
		if c.ProjectID <= 0 {
			return fmt.Errorf("category %s: %w", c.Key, ErrInvalidProjectID)
		}
		if _, ok := keys[c.Key]; ok {
			return fmt.Errorf("key %s: %w", c.Key, ErrDuplicateCategory)
		}
		if _, ok := ids[c.ProjectID]; ok {
			return fmt.Errorf("project id %d: %w", c.ProjectID, ErrDuplicateCategory)
		}
		keys[c.Key] = struct{}{}
		ids[c.ProjectID] = struct{}{}
	}
	return nil
}

// Lookup returns the category tracked under projectID.
func (m CategoryMap) Lookup(projectID int64) (Category, bool) {
	for _, c := range m {
		if c.ProjectID == projectID {
			return c, true
		}
	}
	return Category{}, false
}

// Keys returns the category keys in display order.
func (m CategoryMap) Keys() []string {
	keys := make([]string, len(m))
	for i, c := range m {
		keys[i] = c.Key
	}
	return keys
}

func (m CategoryMap) String() string {
	parts := make([]string, len(m))
	for i, c := range m {
		parts[i] = c.Key + ":" + strconv.FormatInt(c.ProjectID, 10) + ":" + c.Label
	}
	return strings.Join(parts, ",")
}
