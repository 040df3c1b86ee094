package domain

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when reading the Date column for the summary.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006/01/02",
	"2006",
}

// ParseDate parses a free-text date using the supported layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateRange is the earliest and latest parseable Date in a dataset.
type DateRange struct {
	Min time.Time
	Max time.Time
}

// Summary holds the statistics reported after a run.
type Summary struct {
	Rows       int
	Columns    int
	Fatalities float64
	// Dates is nil when the dataset has no Date column or no Date parses.
	Dates *DateRange
	// UnparsedDates counts non-null Dates that matched no layout.
	UnparsedDates int
}

// Summarize computes row counts, the fatalities total and the date range.
// Dates that fail to parse are left out of the range.
func Summarize(ds *Dataset) Summary {
	s := Summary{Rows: ds.Len(), Columns: len(ds.Columns)}
	hasDate := ds.HasColumn(ColDate)

	for _, r := range ds.Records {
		if n, ok := ParseNumber(r[ColFatalities]); ok {
			s.Fatalities += n
		}
		if !hasDate || r.IsNull(ColDate) {
			continue
		}
		t, ok := ParseDate(r[ColDate])
		if !ok {
			s.UnparsedDates++
			continue
		}
		if s.Dates == nil {
			s.Dates = &DateRange{Min: t, Max: t}
			continue
		}
		if t.Before(s.Dates.Min) {
			s.Dates.Min = t
		}
		if t.After(s.Dates.Max) {
			s.Dates.Max = t
		}
	}
	return s
}
