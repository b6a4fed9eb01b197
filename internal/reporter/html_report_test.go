package reporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.ComparisonResult {
	segments := []models.EditSegment{
		{Value: "Total ", Kind: models.SegmentUnchanged},
		{Value: "10", Kind: models.SegmentRemoved},
		{Value: "12", Kind: models.SegmentInserted},
	}
	return &models.ComparisonResult{
		ID:             "cmp-1",
		Summary:        models.ComparisonSummary{Additions: 1, Removals: 1, TotalParts: 3, Unit: models.UnitWords},
		InlineHTML:     NewInlineRenderer().Render(segments, models.UnitWords),
		SideBySideHTML: NewSideBySideRenderer().Render(segments, models.UnitWords),
		StructuredDiff: []models.StructuredChange{
			{Path: "invoice.total", Type: models.ChangeChanged, Left: 10.0, Right: 12.0},
		},
		Insights: &models.Insights{Enabled: true, Headline: "Invoice total <increased>"},
	}
}

func TestHtmlDiffReporter_GenerateReport(t *testing.T) {
	r, err := NewHtmlDiffReporter(zerolog.Nop())
	require.NoError(t, err)

	page, err := r.GenerateReport(sampleResult(), "old.pdf", "new.pdf")
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, DefaultDiffReportTitle)
	assert.Contains(t, html, "old.pdf")
	assert.Contains(t, html, "new.pdf")
	assert.Contains(t, html, `<span class="diff-removed">10</span>`)
	assert.Contains(t, html, `<span class="diff-added">12</span>`)
	assert.Contains(t, html, "invoice.total")
	assert.Contains(t, html, "Invoice total &lt;increased&gt;")
	assert.Contains(t, html, ".diff-added")
}

func TestHtmlDiffReporter_NilResult(t *testing.T) {
	r, err := NewHtmlDiffReporter(zerolog.Nop())
	require.NoError(t, err)

	_, err = r.GenerateReport(nil, "a", "b")
	assert.Error(t, err)
}

func TestHtmlDiffReporter_WriteReport(t *testing.T) {
	r, err := NewHtmlDiffReporter(zerolog.Nop())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "report.html")
	require.NoError(t, r.WriteReport(sampleResult(), "a", "b", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestGetDiffTemplateFunctions(t *testing.T) {
	funcs := GetDiffTemplateFunctions()

	jsonValue := funcs["jsonValue"].(func(any) string)
	assert.Equal(t, `{"a":1}`, jsonValue(map[string]int{"a": 1}))
	assert.Equal(t, "null", jsonValue(nil))

	changeSymbol := funcs["changeSymbol"].(func(models.ChangeType) string)
	assert.Equal(t, "+", changeSymbol(models.ChangeAdded))
	assert.Equal(t, "-", changeSymbol(models.ChangeRemoved))
	assert.Equal(t, "~", changeSymbol(models.ChangeChanged))

	displayPath := funcs["displayPath"].(func(string) string)
	assert.Equal(t, "(root)", displayPath(""))
	assert.Equal(t, "a.b", displayPath("a.b"))
}
