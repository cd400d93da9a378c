package core

type (
	// ProjectDayTotal is the summed duration of one project on one day.
	ProjectDayTotal struct {
		Date      Date
		ProjectID int64
		Seconds   int64
	}

	// DailyCategoryTotal is a ProjectDayTotal renamed to its category.
	DailyCategoryTotal struct {
		Date     Date
		Category string
		Seconds  int64
	}

	// Series is one category column of a YearFrame, aligned with YearFrame.Dates.
	Series struct {
		Category Category
		Values   []DayValue
	}

	// YearFrame is the complete daily grid of a year with one column per category.
	YearFrame struct {
		Year   int
		Dates  []Date
		Series []Series
	}
)

// YearDates returns every calendar day of year, Jan 1 through Dec 31.
func YearDates(year int) []Date {
	first := NewDate(year, 1, 1)
	last := NewDate(year, 12, 31)
	dates := make([]Date, 0, 366)
	for d := first; !d.After(last); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// Len returns the number of rows (days).
func (f YearFrame) Len() int {
	return len(f.Dates)
}

// Column returns the series for a category key.
func (f YearFrame) Column(key string) (Series, bool) {
	for _, s := range f.Series {
		if s.Category.Key == key {
			return s, true
		}
	}
	return Series{}, false
}

// Value returns the cell for key on date d. Dates outside the frame are absent.
func (f YearFrame) Value(key string, d Date) DayValue {
	s, ok := f.Column(key)
	if !ok {
		return DayValue{}
	}
	return s.At(f.index(d))
}

func (f YearFrame) index(d Date) int {
	if d.Year() != f.Year {
		return -1
	}
	return d.YearDay() - 1
}

// At returns the value at row i, or an absent value when out of range.
func (s Series) At(i int) DayValue {
	if i < 0 || i >= len(s.Values) {
		return DayValue{}
	}
	return s.Values[i]
}

// Total sums every present cell.
func (s Series) Total() int64 {
	var total int64
	for _, v := range s.Values {
		if v.Present {
			total += v.Seconds
		}
	}
	return total
}

// ActiveDays counts present cells.
func (s Series) ActiveDays() int {
	n := 0
	for _, v := range s.Values {
		if v.Present {
			n++
		}
	}
	return n
}

// Max returns the largest present value, zero when the series is empty.
func (s Series) Max() int64 {
	var max int64
	for _, v := range s.Values {
		if v.Present && v.Seconds > max {
			max = v.Seconds
		}
	}
	return max
}
