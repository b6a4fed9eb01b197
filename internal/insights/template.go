package insights

import (
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// DefaultPromptTemplate asks for a JSON object describing the changes.
const DefaultPromptTemplate = `You compare two versions of a document: "{{left_name}}" (before) and "{{right_name}}" (after).
The comparison counted {{additions}} added and {{removals}} removed {{unit}}.

Below is a JSON digest with sampled added and removed excerpts and a sample of changed structured fields ({{structured_total}} in total):

{{digest}}

Reply with a JSON object only, using these keys:
- "headline": one sentence describing the most important change.
- "bullets": up to five short bullet points describing notable changes.
- "risk_flags": changes a reviewer should double-check (amounts, dates, obligations, parties); empty if none.`

// RenderTemplate replaces each {{name}} placeholder with vars[name]. Placeholders
// without a value are left untouched and no other template syntax is interpreted.
func RenderTemplate(tpl string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}
