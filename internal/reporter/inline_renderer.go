package reporter

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/aleister1102/docdiff/internal/differ"
	"github.com/aleister1102/docdiff/internal/models"
)

// InlineRenderer renders an edit script as one annotated stream
type InlineRenderer struct{}

// NewInlineRenderer creates a new InlineRenderer
func NewInlineRenderer() *InlineRenderer {
	return &InlineRenderer{}
}

// Render returns escaped markup for segments. In lines mode every logical line
// becomes its own block so line styling survives multi-line runs.
func (r *InlineRenderer) Render(segments []models.EditSegment, unit models.DiffUnit) string {
	var b strings.Builder
	for _, seg := range segments {
		class := segmentClass(seg.Kind)
		if unit == models.UnitLines {
			for _, line := range differ.SplitLogicalLines(seg.Value) {
				writeLineBlock(&b, class, line)
			}
			continue
		}
		writeSpan(&b, class, seg.Value)
	}
	return b.String()
}

// segmentClass returns the CSS class for kind. It panics on kinds the renderers
// do not know, since those can only come from a broken edit script.
func segmentClass(kind models.SegmentKind) string {
	switch kind {
	case models.SegmentUnchanged:
		return ""
	case models.SegmentInserted:
		return ClassAdded
	case models.SegmentRemoved:
		return ClassRemoved
	default:
		panic(fmt.Sprintf("reporter: unknown segment kind %d", int(kind)))
	}
}

func writeSpan(b *strings.Builder, class, text string) {
	escaped := template.HTMLEscapeString(text)
	if class == "" {
		b.WriteString(escaped)
		return
	}
	fmt.Fprintf(b, `<span class="%s">%s</span>`, class, escaped)
}

func writeLineBlock(b *strings.Builder, class, line string) {
	if class == "" {
		fmt.Fprintf(b, `<div class="%s">%s</div>`, ClassLine, template.HTMLEscapeString(line))
		return
	}
	fmt.Fprintf(b, `<div class="%s %s">%s</div>`, ClassLine, class, template.HTMLEscapeString(line))
}
