package calendar

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    YearMonth
		wantErr bool
	}{
		{"202403", YearMonth{2024, time.March}, false},
		{"199912", YearMonth{1999, time.December}, false},
		{"202400", YearMonth{}, true},
		{"202413", YearMonth{}, true},
		{"000001", YearMonth{}, true},
		{"2024-3", YearMonth{}, true},
		{"20240", YearMonth{}, true},
		{"2024ab", YearMonth{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	ym := YearMonth{Year: 2031, Month: time.July}
	if ym.String() != "203107" {
		t.Fatalf("String = %q", ym.String())
	}
	back, err := Parse(ym.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if back != ym {
		t.Errorf("round trip = %v, want %v", back, ym)
	}
}

func TestNext(t *testing.T) {
	if got := (YearMonth{2024, time.March}).Next(); got != (YearMonth{2024, time.April}) {
		t.Errorf("Next(2024-03) = %v", got)
	}
	if got := (YearMonth{2024, time.December}).Next(); got != (YearMonth{2025, time.January}) {
		t.Errorf("Next(2024-12) = %v", got)
	}
}

func TestBefore(t *testing.T) {
	a := YearMonth{2023, time.December}
	b := YearMonth{2024, time.January}
	if !a.Before(b) {
		t.Error("2023-12 should be before 2024-01")
	}
	if b.Before(a) {
		t.Error("2024-01 should not be before 2023-12")
	}
	if a.Before(a) {
		t.Error("a month is not before itself")
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		ym   YearMonth
		want int
	}{
		{YearMonth{2023, time.February}, 28},
		{YearMonth{2024, time.February}, 29},
		{YearMonth{1900, time.February}, 28},
		{YearMonth{2000, time.February}, 29},
		{YearMonth{2024, time.April}, 30},
		{YearMonth{2024, time.December}, 31},
		{YearMonth{2024, time.January}, 31},
	}
	for _, tt := range tests {
		t.Run(tt.ym.String(), func(t *testing.T) {
			if got := tt.ym.Days(); got != tt.want {
				t.Errorf("Days() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDates(t *testing.T) {
	dates := (YearMonth{2024, time.March}).Dates()
	if len(dates) != 31 {
		t.Fatalf("len = %d, want 31", len(dates))
	}
	if dates[0].Weekday() != time.Friday {
		t.Errorf("2024-03-01 weekday = %v, want Friday", dates[0].Weekday())
	}
	for i := 1; i < len(dates); i++ {
		if dates[i].Weekday() != (dates[i-1].Weekday()+1)%7 {
			t.Fatalf("weekday skipped at day %d", i+1)
		}
		if dates[i].Day() != i+1 {
			t.Fatalf("day %d = %d", i+1, dates[i].Day())
		}
	}
}
