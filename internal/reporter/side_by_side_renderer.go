package reporter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aleister1102/docdiff/internal/differ"
	"github.com/aleister1102/docdiff/internal/models"
)

// AlignedBlock is one horizontally aligned piece of the side-by-side view.
// Size counts line blocks in lines mode and rendered characters in words mode;
// LeftSize and RightSize are always equal.
type AlignedBlock struct {
	Left      string
	Right     string
	LeftSize  int
	RightSize int
}

// SideBySideRenderer renders an edit script as two aligned columns
type SideBySideRenderer struct{}

// NewSideBySideRenderer creates a new SideBySideRenderer
func NewSideBySideRenderer() *SideBySideRenderer {
	return &SideBySideRenderer{}
}

// Render returns the left and right column markup for segments.
func (r *SideBySideRenderer) Render(segments []models.EditSegment, unit models.DiffUnit) models.SideBySideHTML {
	var left, right strings.Builder
	for _, block := range r.RenderRows(segments, unit) {
		left.WriteString(block.Left)
		right.WriteString(block.Right)
	}
	return models.SideBySideHTML{Left: left.String(), Right: right.String()}
}

// RenderRows returns the aligned blocks that make up the two columns.
func (r *SideBySideRenderer) RenderRows(segments []models.EditSegment, unit models.DiffUnit) []AlignedBlock {
	if unit == models.UnitLines {
		return r.lineRows(segments)
	}
	return r.wordRows(segments)
}

// wordRows pads the opposing column of every inserted or removed run with a
// blank run of the same rune count.
func (r *SideBySideRenderer) wordRows(segments []models.EditSegment) []AlignedBlock {
	blocks := make([]AlignedBlock, 0, len(segments))
	for _, seg := range segments {
		class := segmentClass(seg.Kind)
		width := utf8.RuneCountInString(seg.Value)

		var content strings.Builder
		writeSpan(&content, class, seg.Value)

		block := AlignedBlock{LeftSize: width, RightSize: width}
		switch seg.Kind {
		case models.SegmentUnchanged:
			block.Left, block.Right = content.String(), content.String()
		case models.SegmentInserted:
			block.Left, block.Right = wordPlaceholder(width), content.String()
		case models.SegmentRemoved:
			block.Left, block.Right = content.String(), wordPlaceholder(width)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// lineRows emits one line block per logical line. A removed run directly
// followed by an inserted run shares rows, so replaced lines sit side by side;
// the shorter side is padded with empty line blocks.
func (r *SideBySideRenderer) lineRows(segments []models.EditSegment) []AlignedBlock {
	blocks := make([]AlignedBlock, 0, len(segments))
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		class := segmentClass(seg.Kind)
		lines := differ.SplitLogicalLines(seg.Value)

		switch seg.Kind {
		case models.SegmentUnchanged:
			content := renderLines(class, lines)
			blocks = append(blocks, AlignedBlock{Left: content, Right: content, LeftSize: len(lines), RightSize: len(lines)})
		case models.SegmentRemoved:
			var inserted []string
			if i+1 < len(segments) && segments[i+1].Kind == models.SegmentInserted {
				inserted = differ.SplitLogicalLines(segments[i+1].Value)
				i++
			}
			blocks = append(blocks, pairLines(lines, inserted))
		case models.SegmentInserted:
			blocks = append(blocks, pairLines(nil, lines))
		}
	}
	return blocks
}

func pairLines(removed, inserted []string) AlignedBlock {
	rows := len(removed)
	if len(inserted) > rows {
		rows = len(inserted)
	}

	var left, right strings.Builder
	left.WriteString(renderLines(ClassRemoved, removed))
	right.WriteString(renderLines(ClassAdded, inserted))
	for n := len(removed); n < rows; n++ {
		left.WriteString(linePlaceholder)
	}
	for n := len(inserted); n < rows; n++ {
		right.WriteString(linePlaceholder)
	}
	return AlignedBlock{Left: left.String(), Right: right.String(), LeftSize: rows, RightSize: rows}
}

func renderLines(class string, lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		writeLineBlock(&b, class, line)
	}
	return b.String()
}

var linePlaceholder = fmt.Sprintf(`<div class="%s %s"></div>`, ClassLine, ClassPlaceholder)

func wordPlaceholder(width int) string {
	return fmt.Sprintf(`<span class="%s">%s</span>`, ClassPlaceholder, strings.Repeat("&nbsp;", width))
}
