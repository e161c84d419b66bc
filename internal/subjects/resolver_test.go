package subjects

import (
	"testing"
	"time"

	"github.com/diario-app/diario/internal/model"
)

var testTeachers = map[string]string{
	"IANNELLO": "matematica",
	"CAMPI":    "lingua inglese",
	"VISENTIN": "lingua e letteratura italiana",
	"NATALE":   "scienze integrate (fisica)",
}

func testLedger() []model.SubjectLedger {
	return []model.SubjectLedger{
		{Subject: "Matematica", Average: 7.2},
		{Subject: "Lingua inglese", Average: 6.5},
		{Subject: "Lingua e letteratura italiana", Average: 5.8},
		{Subject: "Scienze integrate (fisica)", Average: 6.9},
	}
}

func event(title, hint, author, note string) model.CalendarEvent {
	start := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	return model.CalendarEvent{
		ID:          "ev-1",
		Title:       title,
		Start:       &start,
		Kind:        model.KindHomework,
		SubjectHint: hint,
		Author:      author,
		Note:        note,
	}
}

func TestResolve_StructuredLabel(t *testing.T) {
	r := NewResolver(testTeachers)

	tests := []struct {
		name string
		hint string
		want string
	}{
		{"exact", "Matematica", "Matematica"},
		{"case insensitive", "MATEMATICA", "Matematica"},
		{"label contains ledger name", "matematica e complementi", "Matematica"},
		{"ledger name contains label", "inglese", "Lingua inglese"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(event("compiti", tt.hint, "", ""), testLedger())
			if got == nil {
				t.Fatal("Resolve returned nil")
			}
			if got.Subject != tt.want {
				t.Errorf("subject = %q, want %q", got.Subject, tt.want)
			}
		})
	}
}

func TestResolve_TeacherLookup(t *testing.T) {
	r := NewResolver(testTeachers)

	got := r.Resolve(event("studiare cap. 4", "", "IANNELLO CATERINA", ""), testLedger())
	if got == nil {
		t.Fatal("Resolve returned nil")
	}
	if got.Subject != "Matematica" {
		t.Errorf("subject = %q, want Matematica", got.Subject)
	}
}

func TestResolve_TeacherLookupCaseInsensitive(t *testing.T) {
	r := NewResolver(testTeachers)

	got := r.Resolve(event("reading", "", "Campi Federica", ""), testLedger())
	if got == nil {
		t.Fatal("Resolve returned nil")
	}
	if got.Subject != "Lingua inglese" {
		t.Errorf("subject = %q, want Lingua inglese", got.Subject)
	}
}

// The structured label wins over the author even when both would
// resolve: levels run in strict order.
func TestResolve_StructuredBeatsTeacher(t *testing.T) {
	r := NewResolver(testTeachers)

	got := r.Resolve(event("x", "lingua inglese", "IANNELLO CATERINA", ""), testLedger())
	if got == nil {
		t.Fatal("Resolve returned nil")
	}
	if got.Subject != "Lingua inglese" {
		t.Errorf("subject = %q, want Lingua inglese", got.Subject)
	}
}

func TestResolve_BlobFallback(t *testing.T) {
	r := NewResolver(testTeachers)

	got := r.Resolve(event("Verifica di matematica", "", "ROSSI MARIO", ""), testLedger())
	if got == nil {
		t.Fatal("Resolve returned nil")
	}
	if got.Subject != "Matematica" {
		t.Errorf("subject = %q, want Matematica", got.Subject)
	}
}

// "lingua" alone appears in two ledger subjects; requiring every
// significant word prevents the shorter name from matching text that
// only spells out the longer one.
func TestResolve_BlobRequiresAllSignificantWords(t *testing.T) {
	r := NewResolver(nil)

	got := r.Resolve(event("ripasso di lingua e letteratura italiana", "", "", ""), testLedger())
	if got == nil {
		t.Fatal("Resolve returned nil")
	}
	if got.Subject != "Lingua e letteratura italiana" {
		t.Errorf("subject = %q, want Lingua e letteratura italiana", got.Subject)
	}

	// "lingua" by itself satisfies neither language subject in full.
	if got := r.Resolve(event("esercizi di lingua", "", "", ""), testLedger()); got != nil {
		t.Errorf("bare 'lingua' resolved to %q, want nil", got.Subject)
	}
}

func TestResolve_BlobPrefersMostSpecific(t *testing.T) {
	r := NewResolver(nil)
	ledger := []model.SubjectLedger{
		{Subject: "Storia"},
		{Subject: "Storia dell'arte"},
	}

	got := r.Resolve(event("verifica di storia dell'arte", "", "", ""), ledger)
	if got == nil {
		t.Fatal("Resolve returned nil")
	}
	if got.Subject != "Storia dell'arte" {
		t.Errorf("subject = %q, want Storia dell'arte", got.Subject)
	}
}

// A subject whose name has no word longer than four runes can never be
// chosen by the blob fallback.
func TestResolve_BlobSkipsShortWordSubjects(t *testing.T) {
	r := NewResolver(nil)
	ledger := []model.SubjectLedger{{Subject: "Ed. fis."}}

	if got := r.Resolve(event("ed. fis. in palestra", "", "", ""), ledger); got != nil {
		t.Errorf("resolved to %q, want nil", got.Subject)
	}
}

func TestResolve_TieKeepsLedgerOrder(t *testing.T) {
	r := NewResolver(nil)
	ledger := []model.SubjectLedger{
		{Subject: "Scienze motorie"},
		{Subject: "Motorie scienze"},
	}

	got := r.Resolve(event("scienze motorie in palestra", "", "", ""), ledger)
	if got == nil {
		t.Fatal("Resolve returned nil")
	}
	if got.Subject != "Scienze motorie" {
		t.Errorf("subject = %q, want first ledger entry on tie", got.Subject)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	r := NewResolver(testTeachers)

	ev := event("portare materiale da disegno", "", "ROSSI MARIO", "")
	if got := r.Resolve(ev, testLedger()); got != nil {
		t.Fatalf("resolved to %q, want nil", got.Subject)
	}
	if got := r.FallbackLabel(ev); got != "ROSSI MARIO" {
		t.Errorf("FallbackLabel = %q, want author text", got)
	}
}

func TestResolve_EmptyLedger(t *testing.T) {
	r := NewResolver(testTeachers)

	if got := r.Resolve(event("verifica di matematica", "Matematica", "IANNELLO", ""), nil); got != nil {
		t.Errorf("resolved against empty ledger: %q", got.Subject)
	}
}

func TestFallbackLabel_PrefersStructured(t *testing.T) {
	r := NewResolver(nil)
	ev := event("x", "Disegno tecnico", "ROSSI MARIO", "")
	if got := r.FallbackLabel(ev); got != "Disegno tecnico" {
		t.Errorf("FallbackLabel = %q, want structured label", got)
	}
}

func TestTeacherSubject_Deterministic(t *testing.T) {
	// Surnames are scanned in sorted order, so an author mentioning
	// two known teachers always resolves the same way.
	r := NewResolver(map[string]string{
		"BIANCHI": "storia",
		"ALBERTI": "geografia",
	})
	for i := 0; i < 20; i++ {
		got, ok := r.TeacherSubject("supplenza BIANCHI / ALBERTI")
		if !ok || got != "geografia" {
			t.Fatalf("TeacherSubject = %q, %v; want geografia, true", got, ok)
		}
	}
}

func TestSignificantWords(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"Lingua e letteratura italiana", []string{"lingua", "letteratura", "italiana"}},
		{"Storia", []string{"storia"}},
		{"Ed. fis.", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := significantWords(tt.name)
		if len(got) != len(tt.want) {
			t.Errorf("significantWords(%q) = %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("significantWords(%q)[%d] = %q, want %q", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}
