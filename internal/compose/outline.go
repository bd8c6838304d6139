package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FragmentSpec is one outline fragment: exactly one of Text (literal
// locked prose), Template (named template reference) or Slot (bound raw
// value) must be set.
type FragmentSpec struct {
	Text     string `yaml:"text,omitempty"`
	Template string `yaml:"template,omitempty"`
	Slot     string `yaml:"slot,omitempty"`
}

// SectionSpec is one outline section.
type SectionSpec struct {
	ID        string         `yaml:"id"`
	Title     string         `yaml:"title"`
	Fragments []FragmentSpec `yaml:"fragments"`
}

// ChapterSpec is one outline chapter.
type ChapterSpec struct {
	ID       string        `yaml:"id"`
	Title    string        `yaml:"title"`
	Sections []SectionSpec `yaml:"sections"`
}

// Outline is the fixed chapter/section structure of the report, versioned
// configuration like the binding and template tables.
type Outline struct {
	AlwaysShow []string          `yaml:"always_show"`
	Backing    map[string]string `yaml:"backing"`
	Chapters   []ChapterSpec     `yaml:"chapters"`
}

// LoadOutline reads and checks an outline YAML file.
func LoadOutline(path string) (*Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read outline: %w", err)
	}
	var o Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse outline: %w", err)
	}
	if err := o.check(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (o *Outline) check() error {
	seen := make(map[string]bool)
	for _, ch := range o.Chapters {
		if ch.ID == "" {
			return fmt.Errorf("outline chapter with empty id")
		}
		for _, sec := range ch.Sections {
			if sec.ID == "" {
				return fmt.Errorf("chapter %q: section with empty id", ch.ID)
			}
			if seen[sec.ID] {
				return fmt.Errorf("duplicate section id %q", sec.ID)
			}
			seen[sec.ID] = true
			for i, f := range sec.Fragments {
				set := 0
				if f.Text != "" {
					set++
				}
				if f.Template != "" {
					set++
				}
				if f.Slot != "" {
					set++
				}
				if set != 1 {
					return fmt.Errorf("section %q fragment %d: exactly one of text/template/slot required", sec.ID, i)
				}
			}
		}
	}
	return nil
}
