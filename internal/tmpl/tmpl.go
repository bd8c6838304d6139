// Package tmpl renders the locked report prose. Template text is legally
// fixed configuration: it is parsed and checked once at load time, and a
// parsed template can never fail to render — absent values substitute as
// empty strings and are the validation engine's concern, not the renderer's.
package tmpl

import (
	"fmt"
	"strings"

	"github.com/idanr/reportgen/internal/graph"
)

// Context resolves a placeholder path to a value. The zero Context resolves
// nothing, which renders every placeholder empty.
type Context struct {
	resolve func(path string) (any, bool)
}

// NewContext wraps an arbitrary resolver, letting the caller route paths
// through a binding table, a raw graph, or both.
func NewContext(resolve func(path string) (any, bool)) Context {
	return Context{resolve: resolve}
}

// GraphContext resolves placeholder paths directly against a case graph.
func GraphContext(g graph.Graph) Context {
	return NewContext(func(path string) (any, bool) {
		return graph.Resolve(g, path)
	})
}

// elementContext is the iteration context of one {{#each}} element: "."
// is the element itself, and dotted paths resolve within the element.
func elementContext(elem any) Context {
	return NewContext(func(path string) (any, bool) {
		if path == "." {
			return elem, elem != nil
		}
		if m, ok := elem.(map[string]any); ok {
			return graph.Resolve(graph.Graph(m), path)
		}
		return nil, false
	})
}

func (c Context) lookup(path string) (any, bool) {
	if c.resolve == nil {
		return nil, false
	}
	return c.resolve(path)
}

type node interface {
	render(sb *strings.Builder, ctx Context)
}

type textNode string

func (n textNode) render(sb *strings.Builder, _ Context) {
	sb.WriteString(string(n))
}

type varNode struct {
	path string
}

func (n varNode) render(sb *strings.Builder, ctx Context) {
	v, ok := ctx.lookup(n.path)
	if !ok {
		return
	}
	sb.WriteString(graph.Stringify(v))
}

type ifNode struct {
	path string
	body []node
}

func (n ifNode) render(sb *strings.Builder, ctx Context) {
	v, ok := ctx.lookup(n.path)
	if !ok || !truthy(v) {
		return
	}
	for _, child := range n.body {
		child.render(sb, ctx)
	}
}

type eachNode struct {
	path string
	sep  string
	body []node
}

func (n eachNode) render(sb *strings.Builder, ctx Context) {
	v, ok := ctx.lookup(n.path)
	if !ok {
		return
	}
	items, ok := v.([]any)
	if !ok {
		return
	}
	for i, item := range items {
		if i > 0 {
			sb.WriteString(n.sep)
		}
		elem := elementContext(item)
		for _, child := range n.body {
			child.render(sb, elem)
		}
	}
}

// truthy implements block gating: a value renders its block when it is
// present and not an empty string, false, or a zero-length collection.
// Numeric zero is a present value and gates true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// Template is one parsed locked paragraph or list item.
type Template struct {
	name  string
	nodes []node
}

// Name returns the template's configured name.
func (t *Template) Name() string { return t.name }

// Render expands the template against a context. It always succeeds:
// unresolved placeholders become empty strings and omitted blocks leave the
// surrounding text exactly as authored, with no punctuation cleanup.
func (t *Template) Render(ctx Context) string {
	var sb strings.Builder
	for _, n := range t.nodes {
		n.render(&sb, ctx)
	}
	return sb.String()
}

// Parse compiles template source. Malformed control tags — unbalanced
// {{#if}}/{{#each}}, a close tag with no open, an unterminated {{ — are
// configuration errors: they fail here, at load time, and the template is
// refused rather than rendered in a known-bad state.
func Parse(name, src string) (*Template, error) {
	type frame struct {
		kind string // "if" or "each"
		path string
		sep  string
		body []node
	}
	root := &frame{}
	stack := []*frame{root}
	top := func() *frame { return stack[len(stack)-1] }

	rest := src
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			if rest != "" {
				top().body = append(top().body, textNode(rest))
			}
			break
		}
		if open > 0 {
			top().body = append(top().body, textNode(rest[:open]))
		}
		end := strings.Index(rest[open:], "}}")
		if end < 0 {
			return nil, fmt.Errorf("template %q: unterminated {{ tag", name)
		}
		tag := strings.TrimSpace(rest[open+2 : open+end])
		rest = rest[open+end+2:]

		switch {
		case strings.HasPrefix(tag, "#if "):
			path := strings.TrimSpace(strings.TrimPrefix(tag, "#if "))
			if path == "" {
				return nil, fmt.Errorf("template %q: {{#if}} with no expression", name)
			}
			stack = append(stack, &frame{kind: "if", path: path})
		case strings.HasPrefix(tag, "#each "):
			path, sep, err := parseEachTag(name, strings.TrimPrefix(tag, "#each "))
			if err != nil {
				return nil, err
			}
			stack = append(stack, &frame{kind: "each", path: path, sep: sep})
		case tag == "/if", tag == "/each":
			want := strings.TrimPrefix(tag, "/")
			if len(stack) == 1 {
				return nil, fmt.Errorf("template %q: {{%s}} with no matching open tag", name, tag)
			}
			f := top()
			if f.kind != want {
				return nil, fmt.Errorf("template %q: {{%s}} closes {{#%s %s}}", name, tag, f.kind, f.path)
			}
			stack = stack[:len(stack)-1]
			if f.kind == "if" {
				top().body = append(top().body, ifNode{path: f.path, body: f.body})
			} else {
				top().body = append(top().body, eachNode{path: f.path, sep: f.sep, body: f.body})
			}
		case tag == "":
			return nil, fmt.Errorf("template %q: empty {{}} tag", name)
		case strings.HasPrefix(tag, "#"):
			return nil, fmt.Errorf("template %q: unknown control tag {{%s}}", name, tag)
		default:
			top().body = append(top().body, varNode{path: tag})
		}
	}
	if len(stack) != 1 {
		f := top()
		return nil, fmt.Errorf("template %q: unclosed {{#%s %s}}", name, f.kind, f.path)
	}
	return &Template{name: name, nodes: root.body}, nil
}

// parseEachTag splits `owners ", "` into the collection path and the
// optional quoted join separator. No separator means elements join directly.
func parseEachTag(name, rest string) (path, sep string, err error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", "", fmt.Errorf("template %q: {{#each}} with no collection", name)
	}
	quote := strings.IndexByte(rest, '"')
	if quote < 0 {
		return rest, "", nil
	}
	path = strings.TrimSpace(rest[:quote])
	tail := rest[quote+1:]
	end := strings.IndexByte(tail, '"')
	if path == "" || end < 0 || strings.TrimSpace(tail[end+1:]) != "" {
		return "", "", fmt.Errorf("template %q: malformed {{#each}} separator", name)
	}
	return path, tail[:end], nil
}
