package export

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/idanr/reportgen/internal/compose"
)

// HTML renders the document model as a standalone right-to-left HTML page
// for on-screen preview. The Markdown form is converted with goldmark and
// the resulting tree is stamped with dir/lang attributes before
// re-serialization.
func HTML(doc compose.Document) ([]byte, error) {
	var converted bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(doc)), &converted); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	root, err := html.Parse(&converted)
	if err != nil {
		return nil, fmt.Errorf("parse preview html: %w", err)
	}
	if el := findElement(root, "html"); el != nil {
		setAttr(el, "dir", "rtl")
		setAttr(el, "lang", "he")
	}
	if head := findElement(root, "head"); head != nil {
		meta := &html.Node{
			Type: html.ElementNode,
			Data: "meta",
			Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}},
		}
		head.InsertBefore(meta, head.FirstChild)
	}

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return nil, fmt.Errorf("render preview html: %w", err)
	}
	return out.Bytes(), nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := findElement(c, tag); el != nil {
			return el
		}
	}
	return nil
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
