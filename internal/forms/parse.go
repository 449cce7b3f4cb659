// Package forms turns raw form input into API payloads. Nothing here does
// I/O, so every conversion is testable on its own.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseLocalDateTime.
var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseInterests splits comma-separated input into trimmed, non-empty
// entries. The result is never nil, so it encodes as [] rather than null.
func ParseInterests(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseLocalDateTime reads a wall-clock date and time in loc and returns the
// absolute instant. RFC 3339 input carries its own offset and ignores loc.
func ParseLocalDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date %q must look like 2025-01-01T10:00", s)
}

// ParseOptionalInt returns nil for blank input.
func ParseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", s)
	}
	return &n, nil
}

// ParseOptionalFloat returns nil for blank input.
func ParseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &f, nil
}
