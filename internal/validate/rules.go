package validate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/idanr/reportgen/internal/binding"
)

// DateKind names the supported date rule behaviors.
type DateKind string

const (
	// DateNotFuture requires the slot's date to be no later than today,
	// compared at day resolution.
	DateNotFuture DateKind = "not_future"
	// DateRequiresReason fires when the slot's value differs from its
	// reference slot and the companion reason slot is empty.
	DateRequiresReason DateKind = "requires_reason_if_override"
)

// DateRule applies a DateKind to one slot. Reference and Reason are only
// used by requires_reason_if_override.
type DateRule struct {
	Slot      string   `yaml:"slot"`
	Kind      DateKind `yaml:"kind"`
	Reference string   `yaml:"reference,omitempty"`
	Reason    string   `yaml:"reason,omitempty"`
}

// LengthRule requires a slot's string value to have at least Min characters.
type LengthRule struct {
	Slot string `yaml:"slot"`
	Min  int    `yaml:"min"`
}

// RowCountRule requires a slot's array value to have at least Min elements.
type RowCountRule struct {
	Slot string `yaml:"slot"`
	Min  int    `yaml:"min"`
}

// RuleSet is the static supplemental rule configuration, loaded alongside
// the binding table. Rules reference slot IDs, never raw paths, so they
// survive path changes in the bindings.
type RuleSet struct {
	Blocking  []string       `yaml:"blocking"`
	Dates     []DateRule     `yaml:"dates"`
	Lengths   []LengthRule   `yaml:"lengths"`
	RowCounts []RowCountRule `yaml:"row_counts"`
}

// Load reads a rules YAML file.
func Load(path string) (RuleSet, error) {
	var s RuleSet
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse rules: %w", err)
	}
	return s, nil
}

// Check enforces the cross-table invariants at configuration load:
// every blocking slot is a required binding (blocking ⊆ required), every
// rule targets a known slot, and every validator ref on a binding names a
// rule that actually covers that slot. Violations are fatal config errors.
func (s RuleSet) Check(tbl *binding.Table) error {
	for _, slot := range s.Blocking {
		e, ok := tbl.Get(slot)
		if !ok {
			return fmt.Errorf("blocking slot %q is not in the binding table", slot)
		}
		if !e.Required {
			return fmt.Errorf("blocking slot %q is not required; blocking must be a subset of required", slot)
		}
	}
	covered := make(map[string]map[string]bool) // slot → rule names
	mark := func(slot, name string) error {
		if _, ok := tbl.Get(slot); !ok {
			return fmt.Errorf("rule %s targets unknown slot %q", name, slot)
		}
		if covered[slot] == nil {
			covered[slot] = make(map[string]bool)
		}
		covered[slot][name] = true
		return nil
	}
	for _, r := range s.Dates {
		if r.Kind != DateNotFuture && r.Kind != DateRequiresReason {
			return fmt.Errorf("date rule for slot %q: unknown kind %q", r.Slot, r.Kind)
		}
		if r.Kind == DateRequiresReason && (r.Reference == "" || r.Reason == "") {
			return fmt.Errorf("date rule for slot %q: %s needs reference and reason slots", r.Slot, r.Kind)
		}
		if err := mark(r.Slot, string(r.Kind)); err != nil {
			return err
		}
	}
	for _, r := range s.Lengths {
		if err := mark(r.Slot, "min_length"); err != nil {
			return err
		}
	}
	for _, r := range s.RowCounts {
		if err := mark(r.Slot, "min_rows"); err != nil {
			return err
		}
	}
	for _, e := range tbl.Entries() {
		if e.Validator == "" {
			continue
		}
		if !covered[e.Slot][e.Validator] {
			return fmt.Errorf("slot %q references validator %q but no such rule targets it", e.Slot, e.Validator)
		}
	}
	return nil
}
