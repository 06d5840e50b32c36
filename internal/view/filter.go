package view

import (
	"strings"
	"time"

	"ship-tracker-backend/internal/model"
)

// Time range windows accepted by Filters.TimeRange. Any other value,
// including "", disables the time filter.
const (
	Range1h  = "1h"
	Range24h = "24h"
	Range7d  = "7d"
	Range30d = "30d"
)

// SeverityAll disables the severity filter.
const SeverityAll = "all"

var timeRanges = map[string]time.Duration{
	Range1h:  time.Hour,
	Range24h: 24 * time.Hour,
	Range7d:  7 * 24 * time.Hour,
	Range30d: 30 * 24 * time.Hour,
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time // first instant of the first day
	End   time.Time // last millisecond of the last day
}

// NewDateRange builds a DateRange from two "2006-01-02" dates in loc.
func NewDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(time.DateOnly, start, loc)
	if err != nil {
		return DateRange{}, err
	}
	e, err := time.ParseInLocation(time.DateOnly, end, loc)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: endOfDay(e)}, nil
}

// LastDays is the range of the n days before now's day through now's day.
func LastDays(now time.Time, n int) DateRange {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return DateRange{Start: today.AddDate(0, 0, -n), End: endOfDay(today)}
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Filters are the client-side criteria applied to a snapshot. The zero value
// keeps everything.
type Filters struct {
	Search         string
	ViolationTypes []string
	Location       string
	TimeRange      string
	Severity       string
	DateRange      *DateRange
}

// DefaultFilters matches what the pages start with.
func DefaultFilters() Filters {
	return Filters{TimeRange: Range30d, Severity: SeverityAll}
}

// Apply returns the records passing every filter, in input order. It does not
// modify records.
func (f Filters) Apply(records []model.ViewRecord, now time.Time) []model.ViewRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	location := strings.ToLower(f.Location)
	window, hasWindow := timeRanges[f.TimeRange]
	checkSeverity := f.Severity != "" && f.Severity != SeverityAll

	out := make([]model.ViewRecord, 0, len(records))
	for _, r := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.Location.Name), search) {
			continue
		}
		if len(f.ViolationTypes) > 0 && !contains(f.ViolationTypes, r.Violation.Type) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(r.Location.Name), location) {
			continue
		}
		if hasWindow && now.Sub(r.TimeDetected) > window {
			continue
		}
		if checkSeverity && r.Violation.Severity != f.Severity {
			continue
		}
		if f.DateRange != nil && !f.DateRange.Contains(r.TimeDetected) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
