// Package subjects reconciles the inconsistent subject naming used by
// the school portal's three text sources (structured label, teacher
// name, free text) against the canonical names of the grade ledger.
package subjects

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/diario-app/diario/internal/model"
)

// SignificantWordLength is the minimum rune count (exclusive) for a
// word to participate in blob matching. Shorter words ("di", "e",
// "lingua"... up to four runes) are too common to be discriminating.
const SignificantWordLength = 4

// Resolver maps noisy event text to a canonical ledger subject.
type Resolver struct {
	// teachers maps an uppercase surname fragment to the subject that
	// teacher grades under. Curated per institution via config.
	teachers map[string]string
	// surnames holds the teacher keys in sorted order so lookup is
	// deterministic regardless of map iteration.
	surnames []string
}

// NewResolver builds a Resolver from a surname→subject table. Keys are
// normalized to uppercase.
func NewResolver(teachers map[string]string) *Resolver {
	r := &Resolver{teachers: make(map[string]string, len(teachers))}
	for k, v := range teachers {
		r.teachers[strings.ToUpper(k)] = v
	}
	r.surnames = make([]string, 0, len(r.teachers))
	for k := range r.teachers {
		r.surnames = append(r.surnames, k)
	}
	sort.Strings(r.surnames)
	return r
}

// Resolve maps an event to its ledger entry, or nil when no level of
// the fallback chain succeeds. The levels run in strict order and the
// first success wins:
//
//  1. the structured subject label, compared to each ledger name by
//     case-insensitive bidirectional containment;
//  2. a teacher surname found in the author text, mapped through the
//     surname table and then compared as in level 1;
//  3. the lowercased concatenation of title, note and author, matched
//     against each ledger name's significant words — every
//     significant word must appear, and the name with the most
//     significant words wins.
//
// Levels 1 and 2 break ties by ledger order (first match); the ledger
// preserves the grade source's insertion order, so this is stable.
func (r *Resolver) Resolve(ev model.CalendarEvent, ledger []model.SubjectLedger) *model.SubjectLedger {
	if ev.SubjectHint != "" {
		if e := matchLedger(ev.SubjectHint, ledger); e != nil {
			return e
		}
	}
	if ev.Author != "" {
		if subject, ok := r.TeacherSubject(ev.Author); ok {
			if e := matchLedger(subject, ledger); e != nil {
				return e
			}
		}
	}
	return matchBlob(Blob(ev), ledger)
}

// FallbackLabel returns the non-canonical display subject used when
// resolution fails: the structured label verbatim, else the author
// text, else "".
func (r *Resolver) FallbackLabel(ev model.CalendarEvent) string {
	if ev.SubjectHint != "" {
		return ev.SubjectHint
	}
	return ev.Author
}

// TeacherSubject looks up the subject taught by the teacher named in
// the author text, matching surname fragments case-insensitively.
func (r *Resolver) TeacherSubject(author string) (string, bool) {
	upper := strings.ToUpper(author)
	for _, surname := range r.surnames {
		if strings.Contains(upper, surname) {
			return r.teachers[surname], true
		}
	}
	return "", false
}

// Blob concatenates an event's free-text fields into the lowercase
// haystack used by fallback matching.
func Blob(ev model.CalendarEvent) string {
	var parts []string
	for _, s := range []string{ev.Title, ev.Note, ev.Author} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// matchLedger compares label to each ledger name with bidirectional
// substring containment, first match wins.
func matchLedger(label string, ledger []model.SubjectLedger) *model.SubjectLedger {
	lower := strings.ToLower(label)
	for i := range ledger {
		name := strings.ToLower(ledger[i].Subject)
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) || strings.Contains(name, lower) {
			return &ledger[i]
		}
	}
	return nil
}

// matchBlob picks the ledger subject all of whose significant words
// appear in blob. The strict all-words rule keeps a shared word like
// "lingua" from pairing the blob with two different language
// subjects. Among qualifying subjects the one with the most
// significant words wins; ties keep the earlier ledger entry.
func matchBlob(blob string, ledger []model.SubjectLedger) *model.SubjectLedger {
	var best *model.SubjectLedger
	bestWords := 0
	for i := range ledger {
		words := significantWords(ledger[i].Subject)
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(blob, w) {
				all = false
				break
			}
		}
		if all && len(words) > bestWords {
			best = &ledger[i]
			bestWords = len(words)
		}
	}
	return best
}

// significantWords splits a subject name into its lowercase words
// longer than SignificantWordLength runes.
func significantWords(name string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if utf8.RuneCountInString(w) > SignificantWordLength {
			out = append(out, w)
		}
	}
	return out
}
