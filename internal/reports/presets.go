package reports

import (
	"time"

	"github.com/shopledger/shopledger/internal/shared"
)

// Report range presets offered by the UI collaborator.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	PresetLast7     = "last7"
	PresetThisMonth = "thisMonth"
	PresetLastMonth = "lastMonth"
	PresetCustom    = "custom"
)

// ResolveRange turns a preset name into an inclusive timestamp range.
// Custom ranges pass through, with a missing end defaulting to now.
// Unknown presets fall back to today.
func ResolveRange(preset string, now time.Time, custom shared.Range) shared.Range {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	format := func(t time.Time) string { return t.Format(time.RFC3339) }

	switch preset {
	case PresetCustom:
		if custom.End == "" {
			custom.End = format(now)
		}
		return custom
	case PresetYesterday:
		return shared.Range{Start: format(dayStart.AddDate(0, 0, -1)), End: format(dayStart)}
	case PresetLast7:
		return shared.Range{Start: format(dayStart.AddDate(0, 0, -6)), End: format(now)}
	case PresetThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return shared.Range{Start: format(monthStart), End: format(now)}
	case PresetLastMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return shared.Range{Start: format(monthStart.AddDate(0, -1, 0)), End: format(monthStart)}
	case "":
		if !custom.IsZero() {
			if custom.End == "" {
				custom.End = format(now)
			}
			return custom
		}
		fallthrough
	default:
		return shared.Range{Start: format(dayStart), End: format(now)}
	}
}
