package models

import "html/template"

// SideBySideHTML holds the two aligned columns of the side-by-side view.
type SideBySideHTML struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// ExtractedPair holds pass-through extraction text for both sides.
type ExtractedPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// StructuredPair holds pass-through structured records for both sides.
type StructuredPair struct {
	Left  any `json:"left"`
	Right any `json:"right"`
}

// ComparisonResult is the single JSON document returned for one comparison.
type ComparisonResult struct {
	ID               string             `json:"id"`
	Summary          ComparisonSummary  `json:"summary"`
	InlineHTML       string             `json:"inlineHtml"`
	SideBySideHTML   SideBySideHTML     `json:"sideBySideHtml"`
	Extracted        ExtractedPair      `json:"extracted"`
	StructuredOutput StructuredPair     `json:"structuredOutput"`
	StructuredDiff   []StructuredChange `json:"structuredDiff"`
	Insights         *Insights          `json:"insights"`
	Excerpts         Excerpts           `json:"-"`
	Segments         []EditSegment      `json:"-"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// ReportPageData holds all the data needed to render the standalone HTML report.
type ReportPageData struct {
	Title          string
	Timestamp      string
	LeftName       string
	RightName      string
	Summary        ComparisonSummary
	InlineHTML     template.HTML
	SideLeftHTML   template.HTML
	SideRightHTML  template.HTML
	StructuredDiff []StructuredChange
	Insights       *Insights
	StaticCSS      template.CSS
}
