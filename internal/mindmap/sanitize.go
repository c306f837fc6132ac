package mindmap

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoObject = errors.New("no JSON object found")

// Parse recovers a Tree from a raw model response. The whole response is tried
// first, then the span from the first '{' to the last '}'.
func Parse(raw string) (*Tree, error) {
	tree, err := decodeObject(raw)
	if err == nil {
		return tree, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ParseError{Raw: raw, Err: errNoObject}
	}
	tree, err = decodeObject(raw[start : end+1])
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return tree, nil
}

func decodeObject(s string) (*Tree, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, errNoObject
	}
	var tree Tree
	if err := json.Unmarshal([]byte(s), &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}
