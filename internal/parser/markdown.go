package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/mindgest/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	tree := &doctree.DocTree{Title: baseTitle(filename, ".md", ".markdown")}
	sections := doctree.NewSectionBuilder(tree.Title)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			sections.Heading(h.Level, string(h.Text(src)))
			continue
		}
		sections.Paragraph(blockText(n, src))
	}

	tree.Children = sections.Sections()
	return tree, nil
}

// blockText returns the raw lines of a leaf block, or the text of its nested
// blocks joined by newlines.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	switch {
	case n.Type() == ast.TypeBlock && n.Lines().Len() > 0:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	case n.Kind() == ast.KindText:
		buf.Write(n.(*ast.Text).Segment.Value(src))
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			t := blockText(c, src)
			if t == "" {
				continue
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
