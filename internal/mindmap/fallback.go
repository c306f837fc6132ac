package mindmap

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxSentencesPerCategory = 8
	maxIncidents            = 10
	maxIncidentTitle        = 100
	minSentenceLen          = 20
	maxSentenceLen          = 300

	// IncidentsCategory labels the category holding incident spans.
	IncidentsCategory = "Incidents"
)

type keywordCategory struct {
	label   string
	pattern *regexp.Regexp
}

// Fixed keyword categories, in output order. Keywords match anywhere in a
// word, so "marriage" counts for age and "unbailable" for bail.
var keywordCategories = []keywordCategory{
	{"Identity & Background", regexp.MustCompile(`(?i)(address|village|resident|age|dob|born)`)},
	{"Family & Associates", regexp.MustCompile(`(?i)(father|mother|brother|sister|associate|gang|friend)`)},
	{"Legal Status", regexp.MustCompile(`(?i)(arrest|court|bail|custody|trial|jail|prison)`)},
}

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)
	incidentRe    = regexp.MustCompile(`(?i)\d+(?:ST|ND|RD|TH)?\s*INCIDENT`)
	caseNumberRe  = regexp.MustCompile(`(?i)\b(FIR|CASE|CR)\s*NO[\s.:]*(\d+\s*/\s*\d+)`)
	dateRe        = regexp.MustCompile(`\b(\d{2}[./]\d{2}[./]\d{4})\b`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

var caseNumberLabels = map[string]string{
	"fir":  "FIR",
	"case": "Case",
	"cr":   "CR",
}

// Extract builds a mind map for person from text using fixed patterns only.
// It never fails; text without any match yields a root with no categories.
func Extract(person, text string) *Tree {
	root := &Tree{Label: person}

	if incidents := extractIncidents(text); len(incidents) > 0 {
		root.Children = append(root.Children, &Tree{Label: IncidentsCategory, Children: incidents})
	}

	sentences := splitSentences(text)
	for _, cat := range keywordCategories {
		facts := matchSentences(sentences, cat.pattern)
		if len(facts) > 0 {
			root.Children = append(root.Children, &Tree{Label: cat.label, Children: facts})
		}
	}
	return root
}

// splitSentences breaks text after terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func matchSentences(sentences []string, pattern *regexp.Regexp) []*Tree {
	var facts []*Tree
	for _, s := range sentences {
		if !pattern.MatchString(s) {
			continue
		}
		clean := strings.TrimSpace(s)
		n := utf8.RuneCountInString(clean)
		if n > minSentenceLen && n < maxSentenceLen {
			facts = append(facts, Leaf(spaceRe.ReplaceAllString(clean, " ")))
		}
		if len(facts) >= maxSentencesPerCategory {
			break
		}
	}
	return facts
}

// extractIncidents segments text at ordinal incident markers. Each span runs
// to the next marker or the end of text. Spans without a case number or date
// are dropped. Repeated titles get an ordinal suffix so no incident is lost
// to sibling deduplication.
func extractIncidents(text string) []*Tree {
	locs := incidentRe.FindAllStringIndex(text, -1)
	var incidents []*Tree
	seen := make(map[string]bool)
	for i, loc := range locs {
		if i >= maxIncidents {
			break
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		span := strings.TrimSpace(text[loc[0]:end])

		var facts []*Tree
		if m := caseNumberRe.FindStringSubmatch(span); m != nil {
			kind := caseNumberLabels[strings.ToLower(m[1])]
			number := spaceRe.ReplaceAllString(m[2], "")
			facts = append(facts, Leaf(kind+": "+number))
		}
		if m := dateRe.FindStringSubmatch(span); m != nil {
			facts = append(facts, Leaf("Date: "+m[1]))
		}
		if len(facts) == 0 {
			continue
		}
		title := uniqueTitle(incidentTitle(span), seen)
		seen[title] = true
		incidents = append(incidents, &Tree{Label: title, Children: facts})
	}
	return incidents
}

func incidentTitle(span string) string {
	title, _, _ := strings.Cut(span, "\n")
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > maxIncidentTitle {
		title = string([]rune(title)[:maxIncidentTitle])
	}
	return title
}

// uniqueTitle returns title, or title with the first free " (n)" suffix when
// it is already taken. The result stays within maxIncidentTitle characters.
func uniqueTitle(title string, taken map[string]bool) string {
	if !taken[title] {
		return title
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(title)
		if limit := maxIncidentTitle - utf8.RuneCountInString(suffix); len(base) > limit {
			base = base[:limit]
		}
		if candidate := string(base) + suffix; !taken[candidate] {
			return candidate
		}
	}
}
