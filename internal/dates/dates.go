// Package dates provides Italian calendar labels and the day
// arithmetic shared by the detectors and the workload aggregator.
package dates

import (
	"fmt"
	"time"
)

// shortDays is indexed by time.Weekday (Sunday = 0).
var shortDays = [7]string{"Dom", "Lun", "Mar", "Mer", "Gio", "Ven", "Sab"}

var longDays = [7]string{
	"Domenica", "Lunedì", "Martedì", "Mercoledì", "Giovedì", "Venerdì", "Sabato",
}

// months is indexed by time.Month - 1.
var months = [12]string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ShortWeekday returns the abbreviated Italian weekday name ("Gio").
func ShortWeekday(t time.Time) string {
	return shortDays[t.Weekday()]
}

// DayLabel returns the compact agenda label, e.g. "Gio 04/09".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%s %02d/%02d", shortDays[t.Weekday()], t.Day(), int(t.Month()))
}

// LongLabel returns the full Italian date header, e.g.
// "Giovedì 4 Settembre".
func LongLabel(t time.Time) string {
	return fmt.Sprintf("%s %d %s", longDays[t.Weekday()], t.Day(), months[t.Month()-1])
}
