// Package alerts scans a rolling window of agenda events for upcoming
// graded tests and timetable changes. Detection is pure: each call
// recomputes everything from the snapshots it is given.
package alerts

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/diario-app/diario/internal/classify"
	"github.com/diario-app/diario/internal/dates"
	"github.com/diario-app/diario/internal/model"
	"github.com/diario-app/diario/internal/subjects"
)

const (
	// DefaultLookaheadDays is the alerting horizon from today, inclusive
	// at both ends.
	DefaultLookaheadDays = 14
	// DefaultMaxTestAlerts caps the test alert list.
	DefaultMaxTestAlerts = 6

	maxTitleRunes   = 45
	maxSummaryRunes = 50
)

// Detector holds the injected vocabulary and limits. The zero limits
// fall back to the defaults.
type Detector struct {
	Rules         *classify.Ruleset
	Resolver      *subjects.Resolver
	ShortNames    map[string]string
	LookaheadDays int
	MaxTestAlerts int
}

// NewDetector wires a Detector with default limits.
func NewDetector(rules *classify.Ruleset, resolver *subjects.Resolver, shortNames map[string]string) *Detector {
	return &Detector{
		Rules:         rules,
		Resolver:      resolver,
		ShortNames:    shortNames,
		LookaheadDays: DefaultLookaheadDays,
		MaxTestAlerts: DefaultMaxTestAlerts,
	}
}

// Tests returns the upcoming graded assessments in the lookahead
// window, at most MaxTestAlerts, sorted by date. One alert survives
// per (day, subject) pair; duplicates are dropped in processing order
// before sorting, so the first-seen event wins regardless of date
// order in the input.
func (d *Detector) Tests(events []model.CalendarEvent, ledger []model.SubjectLedger, today time.Time) []model.TestAlert {
	from, to := d.window(today)
	seen := make(map[string]bool)

	var out []model.TestAlert
	for _, ev := range events {
		day, ok := eventDay(ev, from, to)
		if !ok {
			continue
		}
		blob := joinFields(ev.Title, ev.Note, ev.Author)
		if !d.Rules.IsTestLike(blob) {
			continue
		}

		subject := ""
		var avg *float64
		if entry := d.Resolver.Resolve(ev, ledger); entry != nil {
			subject = entry.Subject
			a := entry.Average
			avg = &a
		} else {
			subject = d.Resolver.FallbackLabel(ev)
		}

		key := day.Format("2006-01-02") + "|" + strings.ToLower(subject)
		if seen[key] {
			continue
		}
		seen[key] = true

		title := strings.TrimSpace(ev.Title)
		if title == "" {
			title = strings.TrimSpace(ev.Note)
		}

		out = append(out, model.TestAlert{
			EventID:          ev.ID,
			Date:             day,
			DayLabel:         dates.DayLabel(day),
			CanonicalSubject: subject,
			SubjectLabel:     subjects.DisplayName(subject, d.ShortNames),
			DisplayTitle:     elide(title, maxTitleRunes),
			Average:          avg,
			IsLowPriority:    avg == nil || *avg < model.PassingGrade,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if max := d.maxTests(); len(out) > max {
		out = out[:max]
	}
	return out
}

// Schedule returns the timetable disruptions in the lookahead window,
// sorted by date. Unlike Tests there is no deduplication and no cap:
// several disruptions on one day are all surfaced.
func (d *Detector) Schedule(events []model.CalendarEvent, today time.Time) []model.ScheduleAlert {
	from, to := d.window(today)

	var out []model.ScheduleAlert
	for _, ev := range events {
		day, ok := eventDay(ev, from, to)
		if !ok {
			continue
		}
		// The note field is skipped here: schedule notices carry their
		// text in the title, and notes on unrelated homework routinely
		// mention times.
		blob := joinFields(ev.Title, ev.SubjectHint, ev.Author)
		if !d.Rules.IsScheduleChangeLike(blob) {
			continue
		}

		out = append(out, model.ScheduleAlert{
			EventID:    ev.ID,
			Date:       day,
			DayLabel:   dates.DayLabel(day),
			Time:       classify.ExtractTime(blob),
			ChangeType: d.Rules.ChangeType(blob),
			Summary:    elide(strings.TrimSpace(blob), maxSummaryRunes),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (d *Detector) window(today time.Time) (from, to time.Time) {
	from = dates.StartOfDay(today)
	days := d.LookaheadDays
	if days <= 0 {
		days = DefaultLookaheadDays
	}
	return from, from.AddDate(0, 0, days)
}

func (d *Detector) maxTests() int {
	if d.MaxTestAlerts <= 0 {
		return DefaultMaxTestAlerts
	}
	return d.MaxTestAlerts
}

// eventDay returns the event's calendar day when it is scheduled
// within [from, to]. Events without a start never qualify.
func eventDay(ev model.CalendarEvent, from, to time.Time) (time.Time, bool) {
	if ev.Start == nil {
		return time.Time{}, false
	}
	day := dates.StartOfDay(*ev.Start)
	if day.Before(from) || day.After(to) {
		return time.Time{}, false
	}
	return day, true
}

func joinFields(fields ...string) string {
	var parts []string
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// elide cuts s to max runes, replacing the tail with an ellipsis.
func elide(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "…"
}
