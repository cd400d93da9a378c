package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryMap(t *testing.T) {
	m, err := ParseCategoryMap("training:187670676:Training, books:187670687 ,")
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, Category{Key: "training", ProjectID: 187670676, Label: "Training"}, m[0])
	assert.Equal(t, Category{Key: "books", ProjectID: 187670687, Label: "books"}, m[1])
	assert.Equal(t, []string{"training", "books"}, m.Keys())
}

func TestParseCategoryMapErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "non numeric id", in: "training:abc", want: ErrInvalidProjectID},
		{name: "zero id", in: "training:0", want: ErrInvalidProjectID},
		{name: "empty key", in: ":12", want: ErrEmptyCategoryKey},
		{name: "duplicate key", in: "a:1,a:2", want: ErrDuplicateCategory},
		{name: "duplicate id", in: "a:1,b:1", want: ErrDuplicateCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCategoryMap(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseCategoryMap("training")
	assert.Error(t, err)
	_, err = ParseCategoryMap("")
	assert.Error(t, err)
}

func TestCategoryMapRoundTripsThroughString(t *testing.T) {
	m := DefaultCategoryMap()
	parsed, err := ParseCategoryMap(m.String())
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestCategoryLookup(t *testing.T) {
	m := DefaultCategoryMap()
	c, ok := m.Lookup(187670686)
	require.True(t, ok)
	assert.Equal(t, "english", c.Key)
	_, ok = m.Lookup(42)
	assert.False(t, ok)
}

func TestYearSelection(t *testing.T) {
	now := time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC) // already 2026 in JST

	assert.Equal(t, 2026, ThisYear.Year(now, jst))
	assert.Equal(t, 2025, OneYearAgo.Year(now, jst))
	assert.Equal(t, 2024, TwoYearsAgo.Year(now, jst))
	assert.Equal(t, 2025, ThisYear.Year(now, time.UTC))

	for _, s := range []string{"0", "1", "2", " 1 "} {
		_, err := ParseYearSelection(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"3", "-1", "x", ""} {
		sel, err := ParseYearSelection(s)
		assert.ErrorIs(t, err, ErrInvalidYearSelection, s)
		assert.Equal(t, ThisYear, sel)
	}

	assert.Equal(t, []string{"this year", "1 year ago", "2 years ago"},
		[]string{ThisYear.Label(), OneYearAgo.Label(), TwoYearsAgo.Label()})
}
