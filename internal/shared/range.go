package shared

import "strings"

// Range is an inclusive [Start, End] pair of RFC3339 UTC timestamps.
// Comparison is lexicographic, which matches chronological order for
// UTC timestamps in this format.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether ts falls inside the range, inclusive at both ends.
func (r Range) Contains(ts string) bool {
	if r.Start != "" && strings.Compare(ts, r.Start) < 0 {
		return false
	}
	if r.End != "" && strings.Compare(ts, r.End) > 0 {
		return false
	}
	return true
}

// IsZero reports whether the range carries no bounds.
func (r Range) IsZero() bool {
	return r.Start == "" && r.End == ""
}
