// Package calendar provides year-month arithmetic for monthly diary files.
package calendar

import (
	"fmt"
	"strconv"
	"time"
)

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Of returns the month containing t, in t's location.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Parse reads a six digit YYYYMM token.
func Parse(s string) (YearMonth, error) {
	if len(s) != 6 {
		return YearMonth{}, fmt.Errorf("calendar: %q is not YYYYMM", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return YearMonth{}, fmt.Errorf("calendar: %q is not YYYYMM", s)
		}
	}
	y, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[4:])
	if y < 1 {
		return YearMonth{}, fmt.Errorf("calendar: year out of range in %q", s)
	}
	if m < 1 || m > 12 {
		return YearMonth{}, fmt.Errorf("calendar: month out of range in %q", s)
	}
	return YearMonth{Year: y, Month: time.Month(m)}, nil
}

// String formats ym as YYYYMM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Next returns the following month. December rolls into January.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// First returns midnight UTC on the first day of the month.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of days in the month: the day before the first
// of the next month.
func (ym YearMonth) Days() int {
	return ym.Next().First().AddDate(0, 0, -1).Day()
}

// Dates returns every day of the month in order.
func (ym YearMonth) Dates() []time.Time {
	first := ym.First()
	n := ym.Days()
	out := make([]time.Time, n)
	for i := range n {
		out[i] = first.AddDate(0, 0, i)
	}
	return out
}
