package compose

import "github.com/idanr/reportgen/internal/graph"

// Visibility decides whether an optional section renders. A section whose
// backing collection is empty is omitted, unless it is on the always-show
// list (purpose, limitation, declaration, VAT notice), which renders
// unconditionally. Sections with no backing configured always render.
type Visibility struct {
	backing    map[string]string
	alwaysShow map[string]bool
}

// NewVisibility builds a resolver from the outline's backing map and
// always-show list.
func NewVisibility(backing map[string]string, alwaysShow []string) Visibility {
	v := Visibility{
		backing:    backing,
		alwaysShow: make(map[string]bool, len(alwaysShow)),
	}
	for _, id := range alwaysShow {
		v.alwaysShow[id] = true
	}
	return v
}

// IsVisible reports whether the section should appear for this graph.
func (v Visibility) IsVisible(sectionID string, g graph.Graph) bool {
	if v.alwaysShow[sectionID] {
		return true
	}
	path, ok := v.backing[sectionID]
	if !ok {
		return true
	}
	val, ok := graph.Resolve(g, path)
	if !ok {
		return false
	}
	switch t := val.(type) {
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case string:
		return t != ""
	case bool:
		return t
	}
	return true
}
