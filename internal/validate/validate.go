// Package validate evaluates the binding table and supplemental rules
// against one case graph. Data problems are never errors: every check runs,
// nothing short-circuits, and the full report is returned in one pass so
// the caller can present all issues at once.
package validate

import (
	"strings"
	"time"

	"github.com/idanr/reportgen/internal/binding"
	"github.com/idanr/reportgen/internal/graph"
)

// DateIssue is one failed date rule.
type DateIssue struct {
	Slot   string   `json:"slot"`
	Kind   DateKind `json:"kind"`
	Value  string   `json:"value"`
	Detail string   `json:"detail"`
}

// LengthIssue is one string shorter than its minimum.
type LengthIssue struct {
	Slot   string `json:"slot"`
	Min    int    `json:"min"`
	Actual int    `json:"actual"`
}

// RowCountIssue is one collection smaller than its minimum.
type RowCountIssue struct {
	Slot   string `json:"slot"`
	Min    int    `json:"min"`
	Actual int    `json:"actual"`
}

// Report is the outcome of one validation pass. It is built fresh every
// time and never persisted here. Field names are part of the contract
// with the export trigger.
type Report struct {
	MissingRequired []string        `json:"missingRequired"`
	BlockingMissing []string        `json:"blockingMissing"`
	DateIssues      []DateIssue     `json:"dateIssues"`
	LengthIssues    []LengthIssue   `json:"lengthIssues"`
	RowCountIssues  []RowCountIssue `json:"rowCountIssues"`
}

// ExportBlocked is the exporter's fatal signal: a final artifact must not
// be produced while any blocking slot is missing. Other issues degrade to
// visible placeholders in the rendered document.
func (r Report) ExportBlocked() bool {
	return len(r.BlockingMissing) > 0
}

// Clean reports whether the pass found no issues at all.
func (r Report) Clean() bool {
	return len(r.MissingRequired) == 0 &&
		len(r.BlockingMissing) == 0 &&
		len(r.DateIssues) == 0 &&
		len(r.LengthIssues) == 0 &&
		len(r.RowCountIssues) == 0
}

// Run evaluates every binding and rule against the graph. now anchors the
// not_future comparison; pass time.Now() outside tests.
func Run(g graph.Graph, tbl *binding.Table, rules RuleSet, now time.Time) Report {
	var r Report

	blocking := make(map[string]bool, len(rules.Blocking))
	for _, slot := range rules.Blocking {
		blocking[slot] = true
	}

	for _, e := range tbl.Entries() {
		if !e.Required {
			continue
		}
		if !slotPresent(g, tbl, e.Slot) {
			r.MissingRequired = append(r.MissingRequired, e.Slot)
			if blocking[e.Slot] {
				r.BlockingMissing = append(r.BlockingMissing, e.Slot)
			}
		}
	}

	for _, rule := range rules.Dates {
		switch rule.Kind {
		case DateNotFuture:
			checkNotFuture(g, tbl, rule, now, &r)
		case DateRequiresReason:
			checkReasonIfOverride(g, tbl, rule, &r)
		}
	}

	for _, rule := range rules.Lengths {
		v, ok := tbl.Resolve(g, rule.Slot)
		if !ok {
			continue // absence is the presence check's finding
		}
		actual := len([]rune(strings.TrimSpace(graph.Stringify(v))))
		if actual < rule.Min {
			r.LengthIssues = append(r.LengthIssues, LengthIssue{
				Slot: rule.Slot, Min: rule.Min, Actual: actual,
			})
		}
	}

	for _, rule := range rules.RowCounts {
		actual := 0
		if v, ok := tbl.Resolve(g, rule.Slot); ok {
			if arr, isArr := v.([]any); isArr {
				actual = len(arr)
			}
		}
		if actual < rule.Min {
			r.RowCountIssues = append(r.RowCountIssues, RowCountIssue{
				Slot: rule.Slot, Min: rule.Min, Actual: actual,
			})
		}
	}

	return r
}

// slotPresent treats an unresolved path or a blank string as absent.
func slotPresent(g graph.Graph, tbl *binding.Table, slot string) bool {
	v, ok := tbl.Resolve(g, slot)
	if !ok {
		return false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

func checkNotFuture(g graph.Graph, tbl *binding.Table, rule DateRule, now time.Time, r *Report) {
	v, ok := tbl.Resolve(g, rule.Slot)
	if !ok {
		return
	}
	raw := strings.TrimSpace(graph.Stringify(v))
	if raw == "" {
		return
	}
	d, ok := parseDate(raw)
	if !ok {
		r.DateIssues = append(r.DateIssues, DateIssue{
			Slot: rule.Slot, Kind: rule.Kind, Value: raw, Detail: "unparseable date",
		})
		return
	}
	if dayOf(d).After(dayOf(now)) {
		r.DateIssues = append(r.DateIssues, DateIssue{
			Slot: rule.Slot, Kind: rule.Kind, Value: raw, Detail: "date is in the future",
		})
	}
}

func checkReasonIfOverride(g graph.Graph, tbl *binding.Table, rule DateRule, r *Report) {
	value, okV := tbl.Resolve(g, rule.Slot)
	ref, okR := tbl.Resolve(g, rule.Reference)
	if !okV || !okR {
		return
	}
	if graph.Stringify(value) == graph.Stringify(ref) {
		return
	}
	if slotPresent(g, tbl, rule.Reason) {
		return
	}
	r.DateIssues = append(r.DateIssues, DateIssue{
		Slot:   rule.Slot,
		Kind:   rule.Kind,
		Value:  graph.Stringify(value),
		Detail: "differs from " + rule.Reference + " without a stated reason",
	})
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"02.01.2006",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// dayOf truncates to calendar-day resolution in the value's own zone, so
// a date never shifts across midnight during comparison.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
