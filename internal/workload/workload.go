// Package workload buckets agenda tasks into the upcoming business
// days and tallies their completion states for the sidebar chart.
package workload

import (
	"time"

	"github.com/diario-app/diario/internal/dates"
	"github.com/diario-app/diario/internal/model"
)

// BusinessDays is the number of weekdays the aggregation covers.
const BusinessDays = 5

// Aggregate walks forward from today, skipping weekends, until
// BusinessDays days are collected, and partitions each day's
// scheduled tasks by status: done (completed), started (started but
// not completed), todo (everything else, including tasks with no
// status at all). Statuses are read as a snapshot and never mutated.
func Aggregate(events []model.CalendarEvent, statuses map[string]model.TaskStatus, today time.Time) []model.DayLoad {
	out := make([]model.DayLoad, 0, BusinessDays)
	day := dates.StartOfDay(today)
	for len(out) < BusinessDays {
		if !dates.IsWeekend(day) {
			load := model.DayLoad{Date: day, Label: dates.ShortWeekday(day)}
			for _, ev := range events {
				if ev.Start == nil || !dates.SameDay(*ev.Start, day) {
					continue
				}
				st := statuses[ev.ID]
				switch {
				case st.Completed:
					load.Done++
				case st.Started:
					load.Started++
				default:
					load.Todo++
				}
				load.Total++
			}
			out = append(out, load)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}
