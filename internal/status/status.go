// Package status computes the freshness indicator shown for each facility
// on the supervisor map. Status is always derived from the most recent
// visit and the facility's priority tier; it is never stored.
package status

import (
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/geo"
)

// Level is the three-step freshness indicator.
type Level string

const (
	Green  Level = "green"
	Orange Level = "orange"
	Red    Level = "red"
)

// HIGH priority facilities reset at local midnight and tolerate at most
// three days without a visit before turning critical.
const highGraceDays = 3

// STANDARD facilities run on a rolling window instead of calendar days.
const (
	standardGreenWindow  = 48 * time.Hour
	standardOrangeWindow = 72 * time.Hour
)

// Classify computes the freshness level for a facility given the timestamp
// of its most recent visit. lastVisit == nil means never visited. now is
// injected so the calendar-day policy is testable across midnight.
func Classify(priority catalog.Priority, lastVisit *time.Time, now time.Time) Level {
	if lastVisit == nil {
		return Red
	}

	if priority == catalog.PriorityHigh {
		// Visited today counts as covered no matter how early; a visit at
		// 23:59 yesterday stops counting at midnight.
		if !lastVisit.Before(geo.StartOfDay(now)) {
			return Green
		}
		if geo.DaysSince(*lastVisit, now) < highGraceDays {
			return Orange
		}
		return Red
	}

	age := now.Sub(*lastVisit)
	switch {
	case age < standardGreenWindow:
		return Green
	case age <= standardOrangeWindow:
		return Orange
	default:
		return Red
	}
}
