package mindmap

import (
	"regexp"
	"strconv"
	"strings"
)

const maxSlugRunes = 20

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Convert maps t to a RenderNode tree whose root has id rootID and type root.
func Convert(t *Tree, rootID string) *RenderNode {
	return ConvertAt(t, rootID, 0)
}

// ConvertAt maps t to a RenderNode placed at depth, for callers that nest a
// document tree under their own root. Child ids are
// <parent id>_<label slug>_<sibling index>, so siblings never collide even when
// their labels share a prefix. Nodes deeper than MaxDepth below t are dropped.
func ConvertAt(t *Tree, id string, depth int) *RenderNode {
	return convert(t, id, depth, MaxDepth)
}

func convert(t *Tree, id string, depth, remaining int) *RenderNode {
	node := &RenderNode{
		ID:       id,
		Label:    t.Label,
		Type:     TypeForDepth(depth),
		Children: []*RenderNode{},
	}
	if remaining <= 0 {
		return node
	}
	for i, c := range t.Children {
		if c == nil {
			continue
		}
		childID := id + "_" + slug(c.Label) + "_" + strconv.Itoa(i)
		node.Children = append(node.Children, convert(c, childID, depth+1, remaining-1))
	}
	return node
}

// slug lowercases the first 20 characters of label and collapses everything
// that is not a letter or digit into '-'.
func slug(label string) string {
	r := []rune(strings.TrimSpace(label))
	if len(r) > maxSlugRunes {
		r = r[:maxSlugRunes]
	}
	s := slugRe.ReplaceAllString(strings.ToLower(string(r)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "node"
	}
	return s
}
