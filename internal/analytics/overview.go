// Package analytics summarizes the grade ledger for the analysis view.
package analytics

import (
	"sort"

	"github.com/diario-app/diario/internal/model"
	"github.com/diario-app/diario/internal/subjects"
)

// Overview computes the grade overview: total evaluation count, the
// overall average (mean of subject means, 0 when the ledger is empty)
// and the subjects ranked by descending average. The input ledger is
// not modified.
func Overview(ledger []model.SubjectLedger, shortNames map[string]string) model.GradeOverview {
	ov := model.GradeOverview{}
	for _, entry := range ledger {
		ov.TotalGrades += len(entry.Grades)
		ov.OverallAverage += entry.Average
		ov.Subjects = append(ov.Subjects, model.SubjectSummary{
			Subject: entry.Subject,
			Label:   subjects.DisplayName(entry.Subject, shortNames),
			Average: entry.Average,
			Grades:  entry.Grades,
		})
	}
	if len(ledger) > 0 {
		ov.OverallAverage /= float64(len(ledger))
	}
	sort.SliceStable(ov.Subjects, func(i, j int) bool {
		return ov.Subjects[i].Average > ov.Subjects[j].Average
	})
	return ov
}
