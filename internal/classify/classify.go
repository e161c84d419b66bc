// Package classify holds the keyword heuristics used to sift agenda
// text: graded-assessment detection, timetable-change detection, and
// clock-token extraction. All matching is case-insensitive substring
// matching over short Italian stems; there is no language analysis.
package classify

import (
	"regexp"
	"strings"

	"github.com/diario-app/diario/internal/model"
)

// ChangeGroup binds a change type to the stems that signal it. Groups
// are evaluated in slice order; the first group with a matching stem
// wins.
type ChangeGroup struct {
	Type  model.ChangeType
	Stems []string
}

// Ruleset is the injected matching vocabulary. Stems are stored
// lowercase; construct via NewRuleset to normalize arbitrary input.
type Ruleset struct {
	TestStems     []string
	ScheduleStems []string
	ChangeGroups  []ChangeGroup
}

// NewRuleset lowercases all stems and returns a ready Ruleset.
func NewRuleset(test, schedule []string, groups []ChangeGroup) *Ruleset {
	r := &Ruleset{
		TestStems:     lowerAll(test),
		ScheduleStems: lowerAll(schedule),
	}
	for _, g := range groups {
		r.ChangeGroups = append(r.ChangeGroups, ChangeGroup{
			Type:  g.Type,
			Stems: lowerAll(g.Stems),
		})
	}
	return r
}

// DefaultRuleset returns the curated vocabulary for ClasseViva agenda
// text. Deployments with different phrasing override it via config.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		TestStems: []string{"prova", "interrogazion", "test", "verifica", "recupero"},
		ScheduleStems: []string{
			"uscit", "entrat", "anticipat", "posticipat", "ritard", "sciopero", "assemblea",
		},
		// Dismissal stems are checked before entry stems: a notice that
		// mentions both ("uscita anticipata, ingresso posticipato") is
		// filed under the dismissal.
		ChangeGroups: []ChangeGroup{
			{Type: model.ChangeEarlyDismissal, Stems: []string{"uscit", "anticipat"}},
			{Type: model.ChangeDelayedEntry, Stems: []string{"entrat", "posticipat", "ritard"}},
			{Type: model.ChangeStrike, Stems: []string{"sciopero"}},
			{Type: model.ChangeAssembly, Stems: []string{"assemblea"}},
		},
	}
}

// IsTestLike reports whether text mentions a graded assessment.
func (r *Ruleset) IsTestLike(text string) bool {
	return containsAny(strings.ToLower(text), r.TestStems)
}

// IsScheduleChangeLike reports whether text mentions a timetable
// disruption.
func (r *Ruleset) IsScheduleChangeLike(text string) bool {
	return containsAny(strings.ToLower(text), r.ScheduleStems)
}

// ChangeType categorizes a schedule change by testing the stem groups
// in priority order. Text that matched no specific group is a
// GenericChange.
func (r *Ruleset) ChangeType(text string) model.ChangeType {
	lower := strings.ToLower(text)
	for _, g := range r.ChangeGroups {
		if containsAny(lower, g.Stems) {
			return g.Type
		}
	}
	return model.ChangeGeneric
}

// timePattern matches H:MM and H.MM clock tokens with a 1–2 digit hour.
var timePattern = regexp.MustCompile(`\b\d{1,2}[:.]\d{2}\b`)

// ExtractTime returns the first clock token in text normalized to
// H:MM, or "" if none is present. It is a lexical scanner, not a
// validator: out-of-range tokens are returned as written.
func ExtractTime(text string) string {
	m := timePattern.FindString(text)
	if m == "" {
		return ""
	}
	return strings.Replace(m, ".", ":", 1)
}

func containsAny(lower string, stems []string) bool {
	for _, s := range stems {
		if s != "" && strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
