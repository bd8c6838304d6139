package tmpl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idanr/reportgen/internal/graph"
)

func renderSrc(t *testing.T, src string, g graph.Graph) string {
	t.Helper()
	tpl, err := Parse("test", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tpl.Render(GraphContext(g))
}

func TestRender_Placeholder(t *testing.T) {
	g := graph.Graph{"address": map[string]any{"city": "חיפה"}}
	got := renderSrc(t, "הנכס בעיר {{address.city}}.", g)
	if got != "הנכס בעיר חיפה." {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestRender_UnresolvedPlaceholderIsEmpty(t *testing.T) {
	got := renderSrc(t, "לפני {{no.such.path}} אחרי", graph.Graph{})
	if got != "לפני  אחרי" {
		t.Errorf("expected empty substitution, got %q", got)
	}
	if strings.Contains(got, "{{") {
		t.Error("literal placeholder syntax must never reach output")
	}
}

func TestRender_IfBlockPresent(t *testing.T) {
	g := graph.Graph{"mortgage": map[string]any{"bank": "לאומי"}}
	got := renderSrc(t, "רשום{{#if mortgage.bank}} שעבוד לטובת {{mortgage.bank}}{{/if}}.", g)
	if got != "רשום שעבוד לטובת לאומי." {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestRender_IfBlockOmitted(t *testing.T) {
	tests := []struct {
		name string
		g    graph.Graph
	}{
		{"absent", graph.Graph{}},
		{"empty string", graph.Graph{"flag": ""}},
		{"false", graph.Graph{"flag": false}},
		{"empty array", graph.Graph{"flag": []any{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := renderSrc(t, "A{{#if flag}} B {{inner}}{{/if}}C", tc.g)
			if got != "AC" {
				t.Errorf("expected whole block removed, got %q", got)
			}
		})
	}
}

func TestRender_IfNumericZeroIsPresent(t *testing.T) {
	got := renderSrc(t, "{{#if floor}}קומה {{floor}}{{/if}}", graph.Graph{"floor": 0})
	if got != "קומה 0" {
		t.Errorf("expected zero to gate true, got %q", got)
	}
}

func TestRender_EachEmptyArray(t *testing.T) {
	got := renderSrc(t, "{{#each owners}}{{name}};{{/each}}", graph.Graph{"owners": []any{}})
	if got != "" {
		t.Errorf("expected empty render for empty array, got %q", got)
	}
}

func TestRender_EachTwoElementsInOrder(t *testing.T) {
	g := graph.Graph{"owners": []any{
		map[string]any{"name": "דוד לוי", "share": "1/2"},
		map[string]any{"name": "רות לוי", "share": "1/2"},
	}}
	got := renderSrc(t, "{{#each owners}}{{name}} ({{share}})\n{{/each}}", g)
	want := "דוד לוי (1/2)\nרות לוי (1/2)\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRender_EachSeparator(t *testing.T) {
	g := graph.Graph{"attachments": []any{"מחסן", "חניה"}}
	got := renderSrc(t, `{{#each attachments ", "}}{{.}}{{/each}}`, g)
	if got != "מחסן, חניה" {
		t.Errorf("expected joined elements, got %q", got)
	}
}

func TestRender_EachScalarDotOnly(t *testing.T) {
	g := graph.Graph{"plans": []any{"תב\"ע 1139", "תב\"ע חפ/2000"}}
	got := renderSrc(t, "{{#each plans}}{{.}}{{missing}};{{/each}}", g)
	if got != "תב\"ע 1139;תב\"ע חפ/2000;" {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestRender_NestedIfInsideEach(t *testing.T) {
	g := graph.Graph{"permits": []any{
		map[string]any{"number": "114", "note": "תוספת"},
		map[string]any{"number": "007"},
	}}
	got := renderSrc(t, "{{#each permits}}[{{number}}{{#if note}} - {{note}}{{/if}}]{{/each}}", g)
	if got != "[114 - תוספת][007]" {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestRender_Idempotent(t *testing.T) {
	g := graph.Graph{"owners": []any{map[string]any{"name": "א"}}, "city": "חיפה"}
	tpl, err := Parse("test", "{{city}}: {{#each owners}}{{name}}{{/each}}")
	if err != nil {
		t.Fatal(err)
	}
	first := tpl.Render(GraphContext(g))
	second := tpl.Render(GraphContext(g))
	if first != second {
		t.Errorf("renders differ: %q vs %q", first, second)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed if", "{{#if x}}אבג"},
		{"stray close", "אבג{{/if}}"},
		{"mismatched close", "{{#if x}}{{/each}}"},
		{"unterminated tag", "אבג{{address.city"},
		{"empty tag", "{{}}"},
		{"empty if expr", "{{#if }}{{/if}}"},
		{"unknown control", "{{#unless x}}{{/unless}}"},
		{"each no collection", "{{#each }}{{/each}}"},
		{"each bad separator", `{{#each xs ", }}{{/each}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse("bad", tc.src); err == nil {
				t.Errorf("expected parse error for %q", tc.src)
			}
		})
	}
}

func TestParse_ErrorNamesTemplate(t *testing.T) {
	_, err := Parse("ownership_clause", "{{#if x}}")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "ownership_clause") {
		t.Errorf("expected error to name the template, got %v", err)
	}
}

func TestNewTable_RefusesBadTemplate(t *testing.T) {
	_, err := NewTable(map[string]string{
		"good": "{{city}}",
		"bad":  "{{#if x}}",
	})
	if err == nil {
		t.Fatal("expected one bad template to refuse the whole table")
	}
}

func TestLoadTable_YAML(t *testing.T) {
	src := `
templates:
  purpose: "מטרת חוות הדעת: {{purpose}}"
  owners_list: "{{#each owners \", \"}}{{name}}{{/each}}"
`
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("expected table to load, got %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("expected 2 templates, got %d", tbl.Len())
	}
	tpl, ok := tbl.Get("owners_list")
	if !ok {
		t.Fatal("expected owners_list template")
	}
	g := graph.Graph{"owners": []any{
		map[string]any{"name": "דוד"},
		map[string]any{"name": "רות"},
	}}
	if got := tpl.Render(GraphContext(g)); got != "דוד, רות" {
		t.Errorf("unexpected render: %q", got)
	}
}
