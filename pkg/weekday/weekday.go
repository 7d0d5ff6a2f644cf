package weekday

import (
	"strings"
	"time"
)

// Codes are 3-letter lowercase English weekday abbreviations ("mon".."sun"),
// the format doctors use to describe their recurring availability.

// Code returns the 3-letter lowercase code for a weekday.
func Code(d time.Weekday) string {
	return strings.ToLower(d.String()[:3])
}

// CodeOf returns the 3-letter lowercase code for a calendar date.
func CodeOf(date time.Time) string {
	return Code(date.Weekday())
}

// Set is a set of weekday codes. The zero value (empty set) means
// "no constraint": every day is allowed.
type Set map[string]struct{}

// ParseDays parses a comma-separated list of weekday codes, e.g.
// "mon, wed, fri". Entries are trimmed and lowercased, so "Mon, WED,fri"
// parses to the same set as "mon,wed,fri". Unknown entries are kept as-is;
// they simply never match a real weekday.
func ParseDays(csv string) Set {
	set := Set{}
	for _, part := range strings.Split(csv, ",") {
		code := strings.ToLower(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

// Allows reports whether the date falls on an allowed weekday.
// An empty set allows every date.
func (s Set) Allows(date time.Time) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[CodeOf(date)]
	return ok
}

// Next scans forward day by day from the day after `from`, for up to
// `horizonDays` days, and returns the first date the set allows.
// The boolean is false when no allowed day exists within the horizon.
func (s Set) Next(from time.Time, horizonDays int) (time.Time, bool) {
	for i := 1; i <= horizonDays; i++ {
		candidate := from.AddDate(0, 0, i)
		if s.Allows(candidate) {
			return candidate, true
		}
	}
	return time.Time{}, false
}
