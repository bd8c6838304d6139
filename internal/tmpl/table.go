package tmpl

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table holds the named locked templates for one report layout, all parsed
// up front. A single malformed template refuses the whole table.
type Table struct {
	templates map[string]*Template
}

// NewTable parses a name → source mapping.
func NewTable(sources map[string]string) (*Table, error) {
	t := &Table{templates: make(map[string]*Template, len(sources))}
	for name, src := range sources {
		parsed, err := Parse(name, src)
		if err != nil {
			return nil, err
		}
		t.templates[name] = parsed
	}
	return t, nil
}

type tableFile struct {
	Templates map[string]string `yaml:"templates"`
}

// LoadTable reads a templates YAML file and parses every entry.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return NewTable(f.Templates)
}

// Get returns a parsed template by name.
func (t *Table) Get(name string) (*Template, bool) {
	tpl, ok := t.templates[name]
	return tpl, ok
}

// Len reports how many templates the table holds.
func (t *Table) Len() int { return len(t.templates) }
