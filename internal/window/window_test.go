// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package window

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"simple date", "08.03.2024", time.Date(2024, 3, 8, 0, 0, 0, 0, berlin), false},
		{"new year", "01.01.2023", time.Date(2023, 1, 1, 0, 0, 0, 0, berlin), false},
		{"last of year", "31.12.2023", time.Date(2023, 12, 31, 0, 0, 0, 0, berlin), false},
		{"iso order rejected", "2024-03-08", time.Time{}, true},
		{"slash separated rejected", "08/03/2024", time.Time{}, true},
		{"month out of range", "01.13.2024", time.Time{}, true},
		{"day out of range", "32.01.2024", time.Time{}, true},
		{"garbage", "yesterday", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, berlin)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateEmptyMeansToday(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)

	got, err := ParseDate("", loc)
	if err != nil {
		t.Fatalf("ParseDate(\"\") unexpected error: %v", err)
	}

	now := time.Now().In(loc)
	if got.Year() != now.Year() || got.Month() != now.Month() || got.Day() != now.Day() {
		t.Errorf("ParseDate(\"\") = %v, want today's date in %v", got, loc)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("ParseDate(\"\") = %v, want midnight", got)
	}
	if got.Location() != loc {
		t.Errorf("ParseDate(\"\") location = %v, want %v", got.Location(), loc)
	}
}

func TestDayBoundaries(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	date := time.Date(2024, 3, 8, 0, 0, 0, 0, loc)

	start, end := Day(date)

	if !start.Equal(time.Date(2024, 3, 8, 0, 0, 0, 0, loc)) {
		t.Errorf("start = %v, want local midnight", start)
	}
	if !end.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, loc)) {
		t.Errorf("end = %v, want next local midnight", end)
	}

	// Half-open interval: 00:00:00 is in, 23:59:59.999 is in, the next
	// midnight is out.
	first := time.Date(2024, 3, 8, 0, 0, 0, 0, loc)
	last := time.Date(2024, 3, 8, 23, 59, 59, 999000000, loc)
	if first.Before(start) || !first.Before(end) {
		t.Errorf("instant %v not inside [%v, %v)", first, start, end)
	}
	if last.Before(start) || !last.Before(end) {
		t.Errorf("instant %v not inside [%v, %v)", last, start, end)
	}
	if !end.After(last) {
		t.Errorf("end %v must exclude the day's last instant %v", end, last)
	}
}

func TestDayIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	noon := time.Date(2023, 7, 4, 12, 34, 56, 0, loc)

	start, end := Day(noon)
	if !start.Equal(time.Date(2023, 7, 4, 0, 0, 0, 0, loc)) {
		t.Errorf("start = %v, want midnight of the same day", start)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("window length = %v, want 24h", got)
	}
}
