package logcat

import (
	"slices"
	"strings"
)

// Compare orders records by timestamp text. Records without a timestamp
// sort before all others and compare equal to each other. The fixed-width
// layout makes text order chronological within a year; there is no
// rollover handling.
func Compare(a, b *Record) int {
	switch {
	case a.Timestamp == "" && b.Timestamp == "":
		return 0
	case a.Timestamp == "":
		return -1
	case b.Timestamp == "":
		return 1
	}
	return strings.Compare(a.Timestamp, b.Timestamp)
}

// SortByTimestamp sorts records in place by Compare, keeping the original
// relative order of ties.
func SortByTimestamp(records []*Record) {
	slices.SortStableFunc(records, Compare)
}
