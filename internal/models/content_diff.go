package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SegmentKind defines the type of change an edit segment carries.
type SegmentKind int

const (
	// SegmentUnchanged indicates text present on both sides.
	SegmentUnchanged SegmentKind = iota
	// SegmentInserted indicates text present only on the right side.
	SegmentInserted
	// SegmentRemoved indicates text present only on the left side.
	SegmentRemoved
)

// String returns the wire name of the kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentUnchanged:
		return "unchanged"
	case SegmentInserted:
		return "inserted"
	case SegmentRemoved:
		return "removed"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

// MarshalJSON encodes the kind as its wire name.
func (k SegmentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes the kind from its wire name.
func (k *SegmentKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "unchanged":
		*k = SegmentUnchanged
	case "inserted":
		*k = SegmentInserted
	case "removed":
		*k = SegmentRemoved
	default:
		return fmt.Errorf("unknown segment kind %q", s)
	}
	return nil
}

// EditSegment is one maximal run of the edit script.
type EditSegment struct {
	Value string      `json:"value"`
	Kind  SegmentKind `json:"kind"`
}

// DiffUnit selects the comparison granularity for one comparison.
type DiffUnit string

const (
	// UnitWords compares words together with their trailing whitespace.
	UnitWords DiffUnit = "words"
	// UnitLines compares logical lines.
	UnitLines DiffUnit = "lines"
)

// ParseDiffUnit parses a unit name. An empty name yields fallback.
func ParseDiffUnit(name string, fallback DiffUnit) (DiffUnit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return fallback, nil
	case "words", "word":
		return UnitWords, nil
	case "lines", "line":
		return UnitLines, nil
	default:
		return "", fmt.Errorf("unknown diff unit %q", name)
	}
}

// ComparisonSummary holds derived counts for one edit script.
type ComparisonSummary struct {
	Additions  int      `json:"additions"`
	Removals   int      `json:"removals"`
	TotalParts int      `json:"totalParts"`
	Unit       DiffUnit `json:"unit"`
}

// IsIdentical reports whether the script contains no insertions or removals.
func (s ComparisonSummary) IsIdentical() bool {
	return s.Additions == 0 && s.Removals == 0
}

// LeftText reconstructs the left document from an edit script.
func LeftText(segments []EditSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Kind != SegmentInserted {
			b.WriteString(seg.Value)
		}
	}
	return b.String()
}

// RightText reconstructs the right document from an edit script.
func RightText(segments []EditSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Kind != SegmentRemoved {
			b.WriteString(seg.Value)
		}
	}
	return b.String()
}

// Excerpts holds cleaned snippets of inserted and removed text.
type Excerpts struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// ContentDiffResult holds the structured result of one text/structured comparison.
type ContentDiffResult struct {
	Segments         []EditSegment      `json:"segments"`
	Summary          ComparisonSummary  `json:"summary"`
	Excerpts         Excerpts           `json:"excerpts"`
	StructuredDiff   []StructuredChange `json:"structured_diff"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}
