package model

import "time"

// PassingGrade is the sufficiency threshold on the Italian 0–10 scale.
const PassingGrade = 6.0

// EventKind distinguishes homework entries from other agenda items.
type EventKind string

const (
	KindHomework EventKind = "compiti"
	KindOther    EventKind = "altro"
)

// CalendarEvent is a single agenda entry, either synced from the school
// portal or authored by the user. Start is the scheduling source of
// truth; events without it are never eligible for alerting.
type CalendarEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Start       *time.Time `json:"start,omitempty"`
	Kind        EventKind  `json:"kind"`
	SubjectHint string     `json:"subject,omitempty"` // structured label, authoritative when present
	Author      string     `json:"author,omitempty"`  // teacher name or "COMPITI DI <subject>" phrasing
	Note        string     `json:"note,omitempty"`
	IsManual    bool       `json:"is_manual,omitempty"`
}

// Grade is a single evaluation as reported by the grading source.
type Grade struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// SubjectLedger holds all grades for one subject in chronological
// order, plus the precomputed mean for the active academic period.
// Average is meaningful only when Grades is non-empty.
type SubjectLedger struct {
	Subject string  `json:"subject"`
	Grades  []Grade `json:"grades"`
	Average float64 `json:"average"`
}

// TaskStatus is the user-driven progress state of a task. Completed
// does not imply Started: the UI allows skipping straight to done.
type TaskStatus struct {
	Started   bool `json:"started"`
	Completed bool `json:"completed"`
}

// ChangeType categorizes a timetable disruption.
type ChangeType string

const (
	ChangeEarlyDismissal ChangeType = "EarlyDismissal"
	ChangeDelayedEntry   ChangeType = "DelayedEntry"
	ChangeStrike         ChangeType = "Strike"
	ChangeAssembly       ChangeType = "Assembly"
	ChangeGeneric        ChangeType = "GenericChange"
)

// TestAlert is an upcoming graded assessment, recomputed on every
// detection pass and never persisted.
type TestAlert struct {
	EventID          string    `json:"event_id"`
	Date             time.Time `json:"date"`
	DayLabel         string    `json:"day_label"`
	CanonicalSubject string    `json:"subject"`
	SubjectLabel     string    `json:"subject_label"`
	DisplayTitle     string    `json:"title"`
	Average          *float64  `json:"average"`
	IsLowPriority    bool      `json:"is_low_priority"`
}

// ScheduleAlert is an upcoming timetable disruption. Time is empty
// when the event text carries no recognizable clock token.
type ScheduleAlert struct {
	EventID    string     `json:"event_id"`
	Date       time.Time  `json:"date"`
	DayLabel   string     `json:"day_label"`
	Time       string     `json:"time,omitempty"`
	ChangeType ChangeType `json:"change_type"`
	Summary    string     `json:"summary"`
}

// DayLoad tallies one business day's tasks by completion state.
type DayLoad struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	Todo    int       `json:"todo"`
	Started int       `json:"started"`
	Done    int       `json:"done"`
	Total   int       `json:"total"`
}

// SubjectSummary is one subject's standing in the grade overview.
type SubjectSummary struct {
	Subject string  `json:"subject"`
	Label   string  `json:"label"`
	Average float64 `json:"average"`
	Grades  []Grade `json:"grades"`
}

// GradeOverview aggregates the ledger for the analytics view.
type GradeOverview struct {
	TotalGrades    int              `json:"total_grades"`
	OverallAverage float64          `json:"overall_average"`
	Subjects       []SubjectSummary `json:"subjects"`
}
