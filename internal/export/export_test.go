package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/idanr/reportgen/internal/compose"
)

func sampleDoc() compose.Document {
	return compose.Document{
		Chapters: []compose.Chapter{
			{
				ID: "general", Title: "פרק א' - כללי",
				Sections: []compose.Section{
					{
						ID: "location", Title: "הנכס",
						Fragments: []compose.Fragment{
							{Kind: compose.FragmentTemplate, Template: "location", Text: "הנכס ברחוב הנמל 7, חיפה."},
							{Kind: compose.FragmentPlaceholder, Slot: "parcel", Text: "[[ חסר: parcel ]]"},
						},
					},
					{
						ID: "limitation", Title: "הגבלת אחריות",
						Fragments: []compose.Fragment{
							{Kind: compose.FragmentText, Text: "חוות דעת זו נערכה עבור מזמינה בלבד."},
						},
					},
				},
			},
		},
	}
}

func TestMarkdown_Structure(t *testing.T) {
	md := Markdown(sampleDoc())
	for _, want := range []string{
		"# פרק א' - כללי",
		"## הנכס",
		"הנכס ברחוב הנמל 7, חיפה.",
		"**[[ חסר: parcel ]]**",
		"## הגבלת אחריות",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_OrderPreserved(t *testing.T) {
	md := Markdown(sampleDoc())
	if strings.Index(md, "הנכס") > strings.Index(md, "הגבלת אחריות") {
		t.Error("sections out of document order")
	}
}

func TestMarkdown_Deterministic(t *testing.T) {
	doc := sampleDoc()
	if Markdown(doc) != Markdown(doc) {
		t.Error("expected byte-identical markdown for the same model")
	}
}

func TestHTML_RTLPage(t *testing.T) {
	out, err := HTML(sampleDoc())
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	page := string(out)
	if !strings.Contains(page, `dir="rtl"`) {
		t.Error("expected dir=rtl on the page")
	}
	if !strings.Contains(page, `lang="he"`) {
		t.Error("expected lang=he on the page")
	}
	if !strings.Contains(page, `charset="utf-8"`) {
		t.Error("expected charset meta in head")
	}
	if !strings.Contains(page, "הנכס ברחוב הנמל 7, חיפה.") {
		t.Error("expected body text in the preview")
	}
	if !strings.Contains(page, "<h2>") {
		t.Error("expected section headings converted to h2")
	}
}

func TestHTML_PlaceholderVisiblyFlagged(t *testing.T) {
	out, err := HTML(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "<strong>[[ חסר: parcel ]]</strong>") {
		t.Error("expected placeholder emphasized in preview")
	}
}

func TestDOCX_WritesZipArchive(t *testing.T) {
	var buf bytes.Buffer
	if err := DOCX(sampleDoc(), &buf); err != nil {
		t.Fatalf("docx: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 4 || b[0] != 'P' || b[1] != 'K' {
		t.Error("expected a zip container")
	}
}

func TestDOCX_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := DOCX(compose.Document{}, &buf); err != nil {
		t.Fatalf("expected empty document to export, got %v", err)
	}
}
