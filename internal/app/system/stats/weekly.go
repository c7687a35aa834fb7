// internal/app/system/stats/weekly.go
package stats

import (
	"sort"

	"github.com/rollcallhq/rollcall/internal/app/system/week"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// TrailingWeekCount is the size of the weekly trend window.
const TrailingWeekCount = 8

// TopWeekCount caps the "best weeks" list.
const TopWeekCount = 3

// WeekBucket is one week's Present count in a program's participation
// series.
type WeekBucket struct {
	WeekKey string `json:"week_key"` // Monday that starts the week
	Label   string `json:"label"`
	// PresentCount increments once per Present record, so a student
	// attending two sessions in the same week counts twice. This is
	// session participation, not unique attendees.
	PresentCount int `json:"present_count"`
}

// WeeklySeries is the program-scoped weekly view.
type WeeklySeries struct {
	// Trailing holds the last 8 weeks that have any Present records,
	// ascending by week start. Weeks with no Present records are simply
	// absent, not zero-filled.
	Trailing []WeekBucket `json:"trailing"`
	// TopWeeks holds the 3 highest-count weeks over the full history
	// (not just the trailing window), descending by count; equal counts
	// rank the earlier week first.
	TopWeeks []WeekBucket `json:"top_weeks"`
}

// ComputeWeekly buckets Present records by Monday-start week for one
// program's rows. anchorWeekday is the program's configured meeting day
// and only affects labels. Rows whose date fails to parse are skipped;
// dates are validated on write, so that is a stale-data guard, not an
// error path.
func ComputeWeekly(rows []Row, anchorWeekday string) WeeklySeries {
	counts := make(map[string]int)
	for _, r := range rows {
		if r.Status != models.StatusPresent {
			continue
		}
		key, err := week.Start(r.Date)
		if err != nil {
			continue
		}
		counts[key]++
	}

	all := make([]WeekBucket, 0, len(counts))
	for key, n := range counts {
		label, err := week.Label(key, anchorWeekday)
		if err != nil {
			label = key
		}
		all = append(all, WeekBucket{WeekKey: key, Label: label, PresentCount: n})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].WeekKey < all[j].WeekKey })

	trailing := all
	if len(trailing) > TrailingWeekCount {
		trailing = trailing[len(trailing)-TrailingWeekCount:]
	}

	top := make([]WeekBucket, len(all))
	copy(top, all)
	sort.Slice(top, func(i, j int) bool {
		if top[i].PresentCount != top[j].PresentCount {
			return top[i].PresentCount > top[j].PresentCount
		}
		return top[i].WeekKey < top[j].WeekKey
	})
	if len(top) > TopWeekCount {
		top = top[:TopWeekCount]
	}

	return WeeklySeries{Trailing: trailing, TopWeeks: top}
}
