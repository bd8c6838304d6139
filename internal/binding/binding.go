package binding

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/idanr/reportgen/internal/graph"
)

// Source tags where a slot's value comes from. The tag is fixed at
// configuration time; the engine never infers provenance from value shape.
type Source string

const (
	SourceRegistry   Source = "registry"    // land registry extract
	SourceCondoOrder Source = "condo_order" // condominium order
	SourcePermit     Source = "permit"      // building permit
	SourceManual     Source = "manual"      // entered by the appraiser
	SourceAI         Source = "ai"          // AI document extraction
	SourceSystem     Source = "system"      // computed by the engine
)

var validSources = map[Source]bool{
	SourceRegistry:   true,
	SourceCondoOrder: true,
	SourcePermit:     true,
	SourceManual:     true,
	SourceAI:         true,
	SourceSystem:     true,
}

// Entry binds one named document slot to candidate field paths in the case
// graph. Entries are static configuration, never mutated at runtime.
type Entry struct {
	Slot      string   `yaml:"slot"`
	Paths     []string `yaml:"paths"`
	Source    Source   `yaml:"source"`
	Required  bool     `yaml:"required"`
	Validator string   `yaml:"validator,omitempty"`
}

// Table is the full slot table for one report layout.
type Table struct {
	entries []Entry
	bySlot  map[string]Entry
}

// NewTable checks the load-time invariants: unique slot IDs, a known
// source tag, and at least one candidate path on every required entry.
// A violation is a configuration error and stops initialization.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries: entries,
		bySlot:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if e.Slot == "" {
			return nil, fmt.Errorf("binding entry with empty slot id")
		}
		if _, dup := t.bySlot[e.Slot]; dup {
			return nil, fmt.Errorf("duplicate slot id %q", e.Slot)
		}
		if !validSources[e.Source] {
			return nil, fmt.Errorf("slot %q: unknown source %q", e.Slot, e.Source)
		}
		if e.Required && len(e.Paths) == 0 {
			return nil, fmt.Errorf("slot %q: required but has no candidate paths", e.Slot)
		}
		t.bySlot[e.Slot] = e
	}
	return t, nil
}

type tableFile struct {
	Bindings []Entry `yaml:"bindings"`
}

// LoadTable reads a bindings YAML file and applies the NewTable invariants.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bindings: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bindings: %w", err)
	}
	return NewTable(f.Bindings)
}

// Get returns the entry for a slot id.
func (t *Table) Get(slot string) (Entry, bool) {
	e, ok := t.bySlot[slot]
	return e, ok
}

// Entries returns all entries in declaration order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Resolve looks up a slot's value in the graph through its candidate paths.
func (t *Table) Resolve(g graph.Graph, slot string) (any, bool) {
	e, ok := t.bySlot[slot]
	if !ok {
		return nil, false
	}
	return graph.Resolve(g, e.Paths...)
}
