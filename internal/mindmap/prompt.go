package mindmap

import "strings"

// MaxCategories bounds the first level of a model-generated mind map.
const MaxCategories = 6

const systemPrompt = `You are a professional intelligence analyst building a structured subject intelligence mind map.
STRICT RULES:
1. Root label MUST be the Subject Name or Document Title.
2. Create maximum 6 high-level intelligence categories.
3. Categories must be meaningful dimensions such as:
   Identity, Background, Criminal History, Legal Status, Gang Affiliations,
   Associates, Financial Links, Locations, Modus Operandi, Timeline.
4. DO NOT create generic categories like CRIME, MURDER, ATTACK.
5. Each child must be a complete factual statement.
6. Remove duplicate facts.
7. Omit empty categories.
8. For each category, create sub-categories if needed for better organization.
Return ONLY one valid JSON object in this format:
{ "label": "Subject Name", "children": [ {"label": "Category", "children": [{"label": "Fact"}] } ] }`

// Prompt is the fixed instruction pair sent to a backend.
type Prompt struct {
	System string
}

// DefaultPrompt carries the mind map rules.
var DefaultPrompt = Prompt{System: systemPrompt}

// User renders the user message for a subject and its (already truncated) text.
func (p Prompt) User(person, context string) string {
	var sb strings.Builder
	sb.WriteString("Subject: ")
	sb.WriteString(person)
	sb.WriteString("\nIntelligence Text:\n")
	sb.WriteString(context)
	return sb.String()
}
