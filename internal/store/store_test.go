package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/diario-app/diario/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "diario.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func eventAt(id, title string, start time.Time) model.CalendarEvent {
	return model.CalendarEvent{
		ID:    id,
		Title: title,
		Start: &start,
		Kind:  model.KindHomework,
	}
}

func TestReplaceEventsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 9, 4, 9, 0, 0, 0, time.Local)

	ev := model.CalendarEvent{
		ID:          "e1",
		Title:       "Verifica di matematica",
		Start:       &start,
		Kind:        model.KindHomework,
		SubjectHint: "MATEMATICA",
		Author:      "IANNELLO MARIA",
		Note:        "capitoli 3-4",
	}
	require.NoError(t, s.ReplaceEvents(ctx, []model.CalendarEvent{ev}))

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Verifica di matematica", got[0].Title)
	require.Equal(t, "IANNELLO MARIA", got[0].Author)
	require.NotNil(t, got[0].Start)
	require.True(t, got[0].Start.Equal(start))
}

func TestReplaceEventsKeepsManualTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	manual := eventAt("m1", "Ripassare storia", time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local))
	manual.IsManual = true
	require.NoError(t, s.AddManualTask(ctx, manual))
	require.NoError(t, s.ReplaceEvents(ctx,
		[]model.CalendarEvent{eventAt("e1", "Compiti", time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local))}))

	// Second sync drops the old synced row but never the manual one.
	require.NoError(t, s.ReplaceEvents(ctx,
		[]model.CalendarEvent{eventAt("e2", "Altri compiti", time.Date(2026, 9, 4, 0, 0, 0, 0, time.Local))}))

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	ids := []string{got[0].ID, got[1].ID}
	require.Equal(t, []string{"e2", "m1"}, ids)
	require.True(t, got[1].IsManual)
}

func TestNilStartSurvives(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceEvents(ctx, []model.CalendarEvent{
		{ID: "e1", Title: "Senza data", Kind: model.KindOther},
	}))

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0].Start)
}

func TestDeleteManualTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	manual := eventAt("m1", "Esercizi", time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local))
	require.NoError(t, s.AddManualTask(ctx, manual))
	require.NoError(t, s.SetStatus(ctx, "m1", model.TaskStatus{Started: true}))

	require.NoError(t, s.DeleteManualTask(ctx, "m1"))

	got, err := s.Events(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	statuses, err := s.Statuses(ctx)
	require.NoError(t, err)
	require.Empty(t, statuses)
}

func TestDeleteManualTaskRefusesSyncedEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceEvents(ctx,
		[]model.CalendarEvent{eventAt("e1", "Compiti", time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local))}))

	require.ErrorIs(t, s.DeleteManualTask(ctx, "e1"), ErrNotFound)
	require.ErrorIs(t, s.DeleteManualTask(ctx, "missing"), ErrNotFound)
}

func TestLedgerRoundTripPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ledger := []model.SubjectLedger{
		{Subject: "Matematica", Average: 7.25, Grades: []model.Grade{
			{Value: 7, Display: "7"},
			{Value: 7.5, Display: "7½"},
		}},
		{Subject: "Lingua inglese"},
		{Subject: "Storia", Grades: []model.Grade{{Value: 6, Display: "6"}}},
	}
	require.NoError(t, s.ReplaceLedger(ctx, ledger))

	got, err := s.Ledger(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "Matematica", got[0].Subject)
	require.Equal(t, "Lingua inglese", got[1].Subject)
	require.Equal(t, "Storia", got[2].Subject)

	require.Equal(t, 7.25, got[0].Average)
	require.Equal(t, "7½", got[0].Grades[1].Display)
	require.Zero(t, got[1].Average)
	require.Empty(t, got[1].Grades)
}

func TestReplaceLedgerDropsStaleSubjects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceLedger(ctx, []model.SubjectLedger{
		{Subject: "Matematica", Grades: []model.Grade{{Value: 7, Display: "7"}}},
	}))
	require.NoError(t, s.ReplaceLedger(ctx, []model.SubjectLedger{
		{Subject: "Storia", Grades: []model.Grade{{Value: 8, Display: "8"}}},
	}))

	got, err := s.Ledger(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Storia", got[0].Subject)
}

func TestSetStatusUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetStatus(ctx, "e1", model.TaskStatus{Started: true}))
	require.NoError(t, s.SetStatus(ctx, "e1", model.TaskStatus{Started: true, Completed: true}))
	require.NoError(t, s.SetStatus(ctx, "e2", model.TaskStatus{}))

	statuses, err := s.Statuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.Equal(t, model.TaskStatus{Started: true, Completed: true}, statuses["e1"])
	require.Equal(t, model.TaskStatus{}, statuses["e2"])
}
