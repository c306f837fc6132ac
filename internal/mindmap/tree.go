package mindmap

import (
	"encoding/json"
	"fmt"
)

// Tree is the internal mind map: a label with ordered children.
// A node with no children is a leaf.
type Tree struct {
	Label    string  `json:"label"`
	Children []*Tree `json:"children,omitempty"`
}

// Leaf returns a childless node.
func Leaf(label string) *Tree {
	return &Tree{Label: label}
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Label: t.Label}
	if len(t.Children) > 0 {
		out.Children = make([]*Tree, 0, len(t.Children))
		for _, c := range t.Children {
			if c != nil {
				out.Children = append(out.Children, c.Clone())
			}
		}
	}
	return out
}

// Depth returns the number of levels below t (0 for a leaf).
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	deepest := 0
	for _, c := range t.Children {
		if d := c.Depth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// UnmarshalJSON accepts the canonical {label, children} object and also a bare
// string, which models sometimes emit for leaf facts.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Tree{Label: s}
		return nil
	}

	var raw struct {
		Label    *string           `json:"label"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode node: %w", err)
	}

	*t = Tree{}
	if raw.Label != nil {
		t.Label = *raw.Label
	}
	for _, c := range raw.Children {
		if string(c) == "null" {
			continue
		}
		child := &Tree{}
		if err := json.Unmarshal(c, child); err != nil {
			return err
		}
		t.Children = append(t.Children, child)
	}
	return nil
}

// NodeType is the render role of a node, determined only by its depth.
type NodeType string

const (
	TypeRoot   NodeType = "root"
	TypeMain   NodeType = "main"
	TypeSub    NodeType = "sub"
	TypeDetail NodeType = "detail"
)

// TypeForDepth maps a depth to its render role.
func TypeForDepth(depth int) NodeType {
	switch {
	case depth <= 0:
		return TypeRoot
	case depth == 1:
		return TypeMain
	case depth == 2:
		return TypeSub
	default:
		return TypeDetail
	}
}

// RenderNode is the typed, recursively nested node handed to the render layer.
// Children is never nil; leaves carry an empty list.
type RenderNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Type     NodeType      `json:"type"`
	Children []*RenderNode `json:"children"`
}
