package mindmap

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrEmptyResult means the model produced a tree without categories.
var ErrEmptyResult = errors.New("mind map has no categories")

// ParseError indicates no JSON object could be recovered from a model response.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse mind map (raw: %s): %v", truncate(e.Raw, 200), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// BackendError wraps a failed, timed out or empty backend call.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return "generation backend: " + e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
