package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// FullText flattens headings and bodies in document order, one block per line
// group. Headings are kept because they often carry markers such as incident
// ordinals.
func (t *DocTree) FullText() string {
	var sb strings.Builder
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			for _, part := range []string{n.Title, n.Text} {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(part)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return sb.String()
}

// SectionBuilder nests headings by level and attaches body text to the most
// recent heading. Level 0 is the document root.
type SectionBuilder struct {
	root    *DocNode
	stack   []sectionEntry
	pending strings.Builder
}

type sectionEntry struct {
	node  *DocNode
	level int
}

func NewSectionBuilder(title string) *SectionBuilder {
	root := &DocNode{Title: title}
	return &SectionBuilder{
		root:  root,
		stack: []sectionEntry{{node: root, level: 0}},
	}
}

// Heading opens a section at level (1 = top).
func (b *SectionBuilder) Heading(level int, title string) {
	b.flush()
	node := &DocNode{Title: title}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, sectionEntry{node: node, level: level})
}

// Paragraph appends a block of body text to the open section.
func (b *SectionBuilder) Paragraph(text string) {
	if text == "" {
		return
	}
	if b.pending.Len() > 0 {
		b.pending.WriteString("\n\n")
	}
	b.pending.WriteString(text)
}

// Sections returns the top-level sections. Text found before any heading
// becomes a leading untitled section.
func (b *SectionBuilder) Sections() []*DocNode {
	b.flush()
	children := b.root.Children
	if b.root.Text != "" {
		children = append([]*DocNode{{Text: b.root.Text}}, children...)
	}
	return children
}

func (b *SectionBuilder) flush() {
	t := strings.TrimSpace(b.pending.String())
	b.pending.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}
