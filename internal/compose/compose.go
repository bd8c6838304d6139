// Package compose walks the fixed report outline and assembles the
// document model: locked prose, rendered templates, bound values and
// visible placeholders, in document order. Composition always succeeds;
// whether the result may be exported is the validation report's call.
package compose

import (
	"fmt"

	"github.com/idanr/reportgen/internal/binding"
	"github.com/idanr/reportgen/internal/calc"
	"github.com/idanr/reportgen/internal/graph"
	"github.com/idanr/reportgen/internal/tmpl"
)

// DefaultPlaceholderFormat wraps a missing required slot id in a marker
// that cannot be mistaken for report prose.
const DefaultPlaceholderFormat = "[[ חסר: %s ]]"

// Composer holds the three static tables plus presentation knobs. Build
// one per configuration; Compose may then run any number of times.
type Composer struct {
	bindings          *binding.Table
	templates         *tmpl.Table
	outline           *Outline
	visibility        Visibility
	placeholderFormat string
}

// NewComposer cross-checks the outline against the binding and template
// tables: a fragment referencing an unknown template or slot is a
// configuration error and refuses initialization.
func NewComposer(bindings *binding.Table, templates *tmpl.Table, outline *Outline, placeholderFormat string) (*Composer, error) {
	if placeholderFormat == "" {
		placeholderFormat = DefaultPlaceholderFormat
	}
	for _, ch := range outline.Chapters {
		for _, sec := range ch.Sections {
			for _, f := range sec.Fragments {
				if f.Template != "" {
					if _, ok := templates.Get(f.Template); !ok {
						return nil, fmt.Errorf("section %q references unknown template %q", sec.ID, f.Template)
					}
				}
				if f.Slot != "" {
					if _, ok := bindings.Get(f.Slot); !ok {
						return nil, fmt.Errorf("section %q references unknown slot %q", sec.ID, f.Slot)
					}
				}
			}
		}
	}
	return &Composer{
		bindings:          bindings,
		templates:         templates,
		outline:           outline,
		visibility:        NewVisibility(outline.Backing, outline.AlwaysShow),
		placeholderFormat: placeholderFormat,
	}, nil
}

// Compose builds the document model for one case graph. The graph is only
// read; derived valuation values must already be overlaid (see Enrich).
func (c *Composer) Compose(g graph.Graph) Document {
	ctx := c.context(g)
	var doc Document
	for _, chSpec := range c.outline.Chapters {
		ch := Chapter{ID: chSpec.ID, Title: chSpec.Title}
		for _, secSpec := range chSpec.Sections {
			if !c.visibility.IsVisible(secSpec.ID, g) {
				continue
			}
			sec := Section{ID: secSpec.ID, Title: secSpec.Title}
			for _, f := range secSpec.Fragments {
				if frag, ok := c.fragment(f, g, ctx); ok {
					sec.Fragments = append(sec.Fragments, frag)
				}
			}
			ch.Sections = append(ch.Sections, sec)
		}
		if len(ch.Sections) > 0 {
			doc.Chapters = append(doc.Chapters, ch)
		}
	}
	return doc
}

func (c *Composer) fragment(f FragmentSpec, g graph.Graph, ctx tmpl.Context) (Fragment, bool) {
	switch {
	case f.Text != "":
		return Fragment{Kind: FragmentText, Text: f.Text}, true
	case f.Template != "":
		tpl, _ := c.templates.Get(f.Template)
		return Fragment{Kind: FragmentTemplate, Template: f.Template, Text: tpl.Render(ctx)}, true
	default:
		v, ok := c.bindings.Resolve(g, f.Slot)
		if ok {
			return Fragment{Kind: FragmentValue, Slot: f.Slot, Text: graph.Stringify(v)}, true
		}
		entry, _ := c.bindings.Get(f.Slot)
		if entry.Required {
			return Fragment{
				Kind: FragmentPlaceholder,
				Slot: f.Slot,
				Text: fmt.Sprintf(c.placeholderFormat, f.Slot),
			}, true
		}
		return Fragment{}, false // optional and absent: omit silently
	}
}

// context routes template placeholder paths: a path matching a slot id
// resolves through the binding table, anything else is a raw graph path.
func (c *Composer) context(g graph.Graph) tmpl.Context {
	return tmpl.NewContext(func(path string) (any, bool) {
		if _, isSlot := c.bindings.Get(path); isSlot {
			return c.bindings.Resolve(g, path)
		}
		return graph.Resolve(g, path)
	})
}

// Computed carries the valuation calculator's outputs into the graph.
type Computed struct {
	Stats      calc.Stats
	StatsOK    bool
	EquivArea  float64
	FinalValue int64
	ValueOK    bool
}

// Well-known slot ids the valuation step reads. They are bound like any
// other slot so the paths stay configuration.
const (
	SlotBuiltArea   = "built_area"
	SlotBalconyArea = "balcony_area"
	SlotPricePerSqm = "price_per_sqm"
	SlotComparables = "comparables"
)

// Valuation runs the calculator over the bound inputs. Missing inputs
// yield not-computable parts, never an error.
func Valuation(g graph.Graph, tbl *binding.Table, balconyCoef float64, roundingStep int64) Computed {
	var out Computed

	if v, ok := tbl.Resolve(g, SlotComparables); ok {
		if arr, isArr := v.([]any); isArr {
			var prices []float64
			for _, elem := range arr {
				if m, isMap := elem.(map[string]any); isMap {
					if p, ok := graph.Float(graph.Graph(m), "price_per_sqm"); ok {
						prices = append(prices, p)
					}
				}
			}
			out.Stats, out.StatsOK = calc.Comparables(prices)
		}
	}

	built, builtOK := resolveFloat(g, tbl, SlotBuiltArea)
	if !builtOK {
		return out
	}
	balcony, _ := resolveFloat(g, tbl, SlotBalconyArea)
	out.EquivArea = calc.EquivalentArea(built, balcony, balconyCoef)

	price, priceOK := resolveFloat(g, tbl, SlotPricePerSqm)
	if !priceOK {
		return out
	}
	if raw, ok := calc.AssetValue(out.EquivArea, price); ok {
		out.FinalValue = calc.RoundUpTo(raw, roundingStep)
		out.ValueOK = true
	}
	return out
}

func resolveFloat(g graph.Graph, tbl *binding.Table, slot string) (float64, bool) {
	e, ok := tbl.Get(slot)
	if !ok {
		return 0, false
	}
	return graph.Float(g, e.Paths...)
}

// Enrich overlays the computed results under "computed" on a copy of the
// case graph, so templates can reference computed.equiv_area and friends.
// The input graph is never mutated.
func Enrich(g graph.Graph, c Computed) graph.Graph {
	out := graph.Copy(g)
	computed := map[string]any{}
	if c.StatsOK {
		computed["stats"] = map[string]any{
			"count":   c.Stats.Count,
			"mean":    c.Stats.Mean,
			"median":  c.Stats.Median,
			"std_dev": c.Stats.StdDev,
			"min":     c.Stats.Min,
			"max":     c.Stats.Max,
		}
	}
	if c.EquivArea > 0 {
		computed["equiv_area"] = c.EquivArea
	}
	if c.ValueOK {
		computed["final_value"] = c.FinalValue
		computed["final_value_words"] = calc.HebrewWords(c.FinalValue)
	}
	out["computed"] = computed
	return out
}
