package differ

import "github.com/aleister1102/docdiff/internal/models"

// DiffStatsCalculator calculates statistics from diff results
type DiffStatsCalculator struct{}

// NewDiffStatsCalculator creates a new diff stats calculator
func NewDiffStatsCalculator() *DiffStatsCalculator {
	return &DiffStatsCalculator{}
}

// CalculateStats reduces an edit script into unit counts. TotalParts counts
// segments of every kind.
func (dsc *DiffStatsCalculator) CalculateStats(segments []models.EditSegment, unit models.DiffUnit) models.ComparisonSummary {
	summary := models.ComparisonSummary{
		TotalParts: len(segments),
		Unit:       unit,
	}

	for _, seg := range segments {
		switch seg.Kind {
		case models.SegmentInserted:
			summary.Additions += CountUnits(seg.Value, unit)
		case models.SegmentRemoved:
			summary.Removals += CountUnits(seg.Value, unit)
		}
	}

	return summary
}
