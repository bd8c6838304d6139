// Package export serializes the composed document model for downstream
// consumers: deterministic Markdown, an RTL HTML preview, and DOCX.
// Exporters never refuse a document — the export-permission decision is
// the caller's, made from the validation report.
package export

import (
	"strings"

	"github.com/idanr/reportgen/internal/compose"
)

// Markdown renders the document model as Markdown text. The output is a
// pure function of the model: chapters become H1, sections H2, fragments
// paragraphs in order.
func Markdown(doc compose.Document) string {
	var sb strings.Builder
	for _, ch := range doc.Chapters {
		if ch.Title != "" {
			sb.WriteString("# " + ch.Title + "\n\n")
		}
		for _, sec := range ch.Sections {
			if sec.Title != "" {
				sb.WriteString("## " + sec.Title + "\n\n")
			}
			for _, f := range sec.Fragments {
				text := strings.TrimRight(f.Text, "\n")
				if text == "" {
					continue
				}
				if f.Kind == compose.FragmentPlaceholder {
					// Bold so a missing value is impossible to miss in review.
					text = "**" + text + "**"
				}
				sb.WriteString(text + "\n\n")
			}
		}
	}
	return sb.String()
}
