// Package portal decodes ClasseViva scraper exports into the domain
// model. The scraper emits loosely-typed JSON, so every field is
// normalized here before the rest of the application sees it.
package portal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diario-app/diario/internal/model"
)

// startLayouts are tried in order when parsing an event start. The
// scraper usually emits "2006-01-02 15:04" but older dumps vary.
var startLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

type eventDTO struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	Tipo     string `json:"tipo"`
	Materia  string `json:"materia_desc"`
	Autore   string `json:"autore_desc"`
	Nota     string `json:"nota_2"`
	IsManual bool   `json:"is_manual"`
}

type gradeDTO struct {
	Value   float64 `json:"val"`
	Display string  `json:"str"`
}

type ledgerDTO struct {
	Materia string     `json:"materia"`
	Voti    []gradeDTO `json:"voti"`
	Media   float64    `json:"media"`
}

// ParseEvents decodes a calendar export. Events with an unparseable
// or empty start keep a nil Start rather than failing the batch: the
// scraper leaves the field blank for undated entries.
func ParseEvents(data []byte) ([]model.CalendarEvent, error) {
	var dtos []eventDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(dtos))
	for _, d := range dtos {
		events = append(events, model.CalendarEvent{
			ID:          d.ID,
			Title:       strings.TrimSpace(d.Title),
			Start:       parseStart(d.Start),
			Kind:        eventKind(d.Tipo),
			SubjectHint: strings.TrimSpace(d.Materia),
			Author:      strings.TrimSpace(d.Autore),
			Note:        strings.TrimSpace(d.Nota),
			IsManual:    d.IsManual,
		})
	}
	return events, nil
}

// ParseLedger decodes a grade export into per-subject ledgers. The
// export order is preserved: it is the tie-break order downstream.
func ParseLedger(data []byte) ([]model.SubjectLedger, error) {
	var dtos []ledgerDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode grades: %w", err)
	}

	ledger := make([]model.SubjectLedger, 0, len(dtos))
	for _, d := range dtos {
		entry := model.SubjectLedger{
			Subject: strings.TrimSpace(d.Materia),
			Grades:  make([]model.Grade, 0, len(d.Voti)),
		}
		for _, v := range d.Voti {
			entry.Grades = append(entry.Grades, model.Grade{
				Value:   v.Value,
				Display: v.Display,
			})
		}
		if len(entry.Grades) > 0 {
			entry.Average = d.Media
			if entry.Average == 0 {
				entry.Average = meanValue(entry.Grades)
			}
		}
		ledger = append(ledger, entry)
	}
	return ledger, nil
}

func parseStart(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

func eventKind(tipo string) model.EventKind {
	if strings.EqualFold(strings.TrimSpace(tipo), string(model.KindHomework)) {
		return model.KindHomework
	}
	return model.KindOther
}

func meanValue(grades []model.Grade) float64 {
	sum := 0.0
	for _, g := range grades {
		sum += g.Value
	}
	return sum / float64(len(grades))
}
