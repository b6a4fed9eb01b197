package extractor

import (
	"strings"
)

const fanOutSuffix = "[*]"

// FieldPath addresses a value in a decoded JSON payload. Segments are separated by
// dots; a segment ending in "[*]" fans out over an array, so "pages[*].text"
// collects the text of every page.
type FieldPath string

// Lookup returns the value at the path. Fan-out segments yield a []any of the
// values found below them.
func (p FieldPath) Lookup(payload any) (any, bool) {
	if p == "" {
		return payload, payload != nil
	}
	return walkPath(payload, strings.Split(string(p), "."))
}

func walkPath(node any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return node, node != nil
	}

	key, fanOut := strings.CutSuffix(segments[0], fanOutSuffix)

	child := node
	if key != "" {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if child, ok = obj[key]; !ok {
			return nil, false
		}
	}
	if !fanOut {
		return walkPath(child, segments[1:])
	}

	items, ok := child.([]any)
	if !ok {
		return nil, false
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		if v, ok := walkPath(item, segments[1:]); ok {
			out = append(out, v)
		}
	}
	return out, len(out) > 0
}

// ResolveString returns the first candidate that holds non-blank text. Fanned-out
// strings are joined with blank lines.
func ResolveString(payload any, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		v, ok := FieldPath(candidate).Lookup(payload)
		if !ok {
			continue
		}
		if s := collectStrings(v); strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// ResolveValue returns the first candidate that holds a non-null value.
func ResolveValue(payload any, candidates []string) (any, bool) {
	for _, candidate := range candidates {
		if v, ok := FieldPath(candidate).Lookup(payload); ok {
			return v, true
		}
	}
	return nil, false
}

func collectStrings(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := collectStrings(item); strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n\n")
	default:
		return ""
	}
}
