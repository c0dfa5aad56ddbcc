// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package window computes the half-open creation-time window for a
// harvest run: local midnight to the following local midnight.
package window

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the CLI date format: day.month.year.
const DateLayout = "02.01.2006"

// ErrInvalidDate reports a date argument that does not parse as dd.mm.yyyy.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a dd.mm.yyyy string in loc. An empty string means the
// current date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if s == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want dd.mm.yyyy)", ErrInvalidDate, s)
	}
	return t, nil
}

// Day returns the [start, end) window spanning the calendar day of date
// in date's location. end is the next day's midnight, so the window stays
// correct across DST transitions.
func Day(date time.Time) (start, end time.Time) {
	loc := date.Location()
	start = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}
