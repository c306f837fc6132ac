package mindmap

import "regexp"

// DefaultSubject is returned when no candidate name is found.
const DefaultSubject = "Subject"

// Two or more capitalized words separated by single spaces.
var properNameRe = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)

// DetectSubject returns the most frequent proper-name phrase in text. Ties go
// to the phrase seen first.
func DetectSubject(text string) string {
	matches := properNameRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return DefaultSubject
	}

	counts := make(map[string]int, len(matches))
	order := make([]string, 0, len(matches))
	for _, m := range matches {
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}

	best := order[0]
	for _, name := range order[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}
