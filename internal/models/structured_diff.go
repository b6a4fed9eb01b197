package models

import (
	"encoding/json"
	"fmt"
)

// ChangeType classifies a structured change.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// StructuredChange is one path-addressed difference between two structured records.
// Path is empty for the root.
type StructuredChange struct {
	Path  string     `json:"path"`
	Type  ChangeType `json:"type"`
	Left  any        `json:"left"`
	Right any        `json:"right"`
}

// String renders the change for logs and CLI output.
func (c StructuredChange) String() string {
	path := c.Path
	if path == "" {
		path = "<root>"
	}
	switch c.Type {
	case ChangeAdded:
		return fmt.Sprintf("+ %s: %s", path, compactJSON(c.Right))
	case ChangeRemoved:
		return fmt.Sprintf("- %s: %s", path, compactJSON(c.Left))
	default:
		return fmt.Sprintf("~ %s: %s -> %s", path, compactJSON(c.Left), compactJSON(c.Right))
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
