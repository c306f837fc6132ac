package mindmap

import "strings"

// MaxDepth is the deepest level kept below a mind map root.
const MaxDepth = 8

// Normalize returns a cleaned copy of t. Category and fact labels are trimmed,
// blank and repeated labels are dropped (first occurrence wins) and categories
// left without facts are removed. Levels below facts are copied unchanged.
// The input is not modified.
func Normalize(t *Tree) *Tree {
	if t == nil {
		return nil
	}

	out := &Tree{Label: t.Label}
	seenCategories := make(map[string]bool, len(t.Children))
	for _, category := range t.Children {
		if category == nil {
			continue
		}
		label := strings.TrimSpace(category.Label)
		if label == "" || seenCategories[label] {
			continue
		}
		seenCategories[label] = true

		facts := normalizeFacts(category.Children)
		if len(facts) == 0 {
			continue
		}
		out.Children = append(out.Children, &Tree{Label: label, Children: facts})
	}
	return out
}

func normalizeFacts(children []*Tree) []*Tree {
	var facts []*Tree
	seen := make(map[string]bool, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		label := strings.TrimSpace(child.Label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true

		fact := child.Clone()
		fact.Label = label
		facts = append(facts, fact)
	}
	return facts
}

// LimitDepth returns a copy of t with every node deeper than maxDepth removed.
func LimitDepth(t *Tree, maxDepth int) *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Label: t.Label}
	if maxDepth <= 0 {
		return out
	}
	for _, c := range t.Children {
		if c != nil {
			out.Children = append(out.Children, LimitDepth(c, maxDepth-1))
		}
	}
	return out
}
