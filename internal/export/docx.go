package export

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"github.com/idanr/reportgen/internal/compose"
)

// Text sizes in half-points, per OOXML convention.
const (
	chapterTitleSize = "32"
	sectionTitleSize = "28"
)

// DOCX writes the document model as a Word file. Titles are enlarged,
// body paragraphs right-justified for Hebrew text; page-level layout and
// pagination stay with the consuming side.
func DOCX(doc compose.Document, w io.Writer) error {
	file := docx.New().WithDefaultTheme()

	for _, ch := range doc.Chapters {
		if ch.Title != "" {
			p := file.AddParagraph()
			p.Justification("right")
			p.AddText(ch.Title).Size(chapterTitleSize)
		}
		for _, sec := range ch.Sections {
			if sec.Title != "" {
				p := file.AddParagraph()
				p.Justification("right")
				p.AddText(sec.Title).Size(sectionTitleSize)
			}
			for _, f := range sec.Fragments {
				if f.Text == "" {
					continue
				}
				p := file.AddParagraph()
				p.Justification("right")
				run := p.AddText(f.Text)
				if f.Kind == compose.FragmentPlaceholder {
					run.Color("CC0000")
				}
			}
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
