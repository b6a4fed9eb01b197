package comparison

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/differ"
	"github.com/aleister1102/docdiff/internal/extractor"
	"github.com/aleister1102/docdiff/internal/insights"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapExtractor struct {
	mu      sync.Mutex
	results map[string]*models.ExtractionResult
	errs    map[string]error
	seen    []string
}

func (m *mapExtractor) Extract(ctx context.Context, doc extractor.Document) (*models.ExtractionResult, error) {
	m.mu.Lock()
	m.seen = append(m.seen, doc.Name)
	m.mu.Unlock()
	if err := m.errs[doc.Name]; err != nil {
		return nil, err
	}
	return m.results[doc.Name], nil
}

type stubSummarizer struct {
	enabled bool
	out     *models.Insights
	err     error
	digest  insights.Digest
	calls   int
}

func (s *stubSummarizer) Summarize(ctx context.Context, digest insights.Digest) (*models.Insights, error) {
	s.calls++
	s.digest = digest
	return s.out, s.err
}

func (s *stubSummarizer) Enabled() bool { return s.enabled }

type stubAdmitter struct{ err error }

func (a stubAdmitter) Admit() error { return a.err }

func newTestService(t *testing.T, ext extractor.Extractor, sum insights.Summarizer, lim Admitter) *Service {
	t.Helper()
	cd, err := differ.NewContentDiffer(zerolog.Nop(), differ.DefaultDiffConfig())
	require.NoError(t, err)

	b := NewServiceBuilder(zerolog.Nop()).
		WithExtractor(ext).
		WithDiffer(cd).
		WithDigestLimits(insights.DigestLimits{MaxSnippets: 2, MaxSnippetLength: 50, StructuredSampleSize: 1})
	if sum != nil {
		b = b.WithSummarizer(sum)
	}
	if lim != nil {
		b = b.WithLimiter(lim)
	}
	svc, err := b.Build()
	require.NoError(t, err)
	return svc
}

func TestServiceBuilder_RequiresDiffer(t *testing.T) {
	_, err := NewServiceBuilder(zerolog.Nop()).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
}

func TestService_Compare(t *testing.T) {
	ext := &mapExtractor{results: map[string]*models.ExtractionResult{
		"v1.txt": {Text: "The quick brown fox", StructuredOutput: map[string]any{"version": "1"}},
		"v2.txt": {Text: "The slow brown fox", StructuredOutput: map[string]any{"version": "2"}},
	}}
	svc := newTestService(t, ext, nil, nil)

	result, err := svc.Compare(context.Background(), Request{
		Left:  extractor.Document{Name: "v1.txt"},
		Right: extractor.Document{Name: "v2.txt"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, models.UnitWords, result.Summary.Unit)
	assert.Equal(t, 1, result.Summary.Additions)
	assert.Equal(t, 1, result.Summary.Removals)
	assert.Contains(t, result.InlineHTML, `<span class="diff-removed">quick </span>`)
	assert.Contains(t, result.InlineHTML, `<span class="diff-added">slow </span>`)
	assert.Contains(t, result.SideBySideHTML.Left, "quick")
	assert.Contains(t, result.SideBySideHTML.Right, "slow")
	assert.Equal(t, "The quick brown fox", result.Extracted.Left)
	assert.Equal(t, "The slow brown fox", result.Extracted.Right)
	assert.Equal(t, map[string]any{"version": "1"}, result.StructuredOutput.Left)
	require.Len(t, result.StructuredDiff, 1)
	assert.Equal(t, "version", result.StructuredDiff[0].Path)
	assert.False(t, result.Insights.Enabled)
	assert.ElementsMatch(t, []string{"v1.txt", "v2.txt"}, ext.seen)
	assert.Equal(t, "The quick brown fox", models.LeftText(result.Segments))
}

func TestService_Compare_ExtractionFailure(t *testing.T) {
	ext := &mapExtractor{
		results: map[string]*models.ExtractionResult{"a": {Text: "a"}},
		errs:    map[string]error{"b": errorwrapper.WrapError(errorwrapper.ErrTimeout, "job did not finish")},
	}
	svc := newTestService(t, ext, nil, nil)

	_, err := svc.Compare(context.Background(), Request{
		Left:  extractor.Document{Name: "a"},
		Right: extractor.Document{Name: "b"},
	})
	require.Error(t, err)
	assert.Equal(t, errorwrapper.CategoryTimeout, errorwrapper.Categorize(err))
}

func TestService_Compare_NilExtractionIsEmpty(t *testing.T) {
	ext := &mapExtractor{results: map[string]*models.ExtractionResult{"a": {Text: "only left\n"}}}
	svc := newTestService(t, ext, nil, nil)

	result, err := svc.Compare(context.Background(), Request{
		Left:  extractor.Document{Name: "a"},
		Right: extractor.Document{Name: "missing"},
		Unit:  models.UnitLines,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.Additions)
	assert.Equal(t, 1, result.Summary.Removals)
	assert.Empty(t, result.Extracted.Right)
	assert.Empty(t, result.StructuredDiff)
}

func TestService_Compare_NoExtractor(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	_, err := svc.Compare(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, errorwrapper.CategoryUnavailable, errorwrapper.Categorize(err))
}

func TestService_AdmissionRefused(t *testing.T) {
	refused := errorwrapper.WrapError(errorwrapper.ErrServiceUnavailable, "memory limit exceeded")
	ext := &mapExtractor{}
	svc := newTestService(t, ext, nil, stubAdmitter{err: refused})

	_, err := svc.Compare(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errorwrapper.ErrServiceUnavailable)
	assert.Empty(t, ext.seen)

	_, err = svc.CompareText(context.Background(), TextRequest{})
	assert.ErrorIs(t, err, errorwrapper.ErrServiceUnavailable)
}

func TestService_CompareText_InvalidUnit(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	_, err := svc.CompareText(context.Background(), TextRequest{Unit: "sentences"})
	require.Error(t, err)
	assert.Equal(t, errorwrapper.CategoryBadInput, errorwrapper.Categorize(err))
}

func TestService_CompareText_Lines(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	result, err := svc.CompareText(context.Background(), TextRequest{
		Left:  models.ExtractionResult{Text: "a\nb\nc\n"},
		Right: models.ExtractionResult{Text: "a\nx\nc\n"},
		Unit:  "lines",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UnitLines, result.Summary.Unit)
	assert.Equal(t, 1, result.Summary.Additions)
	assert.Equal(t, 1, result.Summary.Removals)
	assert.Contains(t, result.InlineHTML, `<div class="diff-line diff-removed">b</div>`)
	assert.Contains(t, result.InlineHTML, `<div class="diff-line diff-added">x</div>`)
}

func TestService_Insights(t *testing.T) {
	left := models.ExtractionResult{Text: "total 10", StructuredOutput: map[string]any{"a": 1.0, "b": 1.0}}
	right := models.ExtractionResult{Text: "total 12", StructuredOutput: map[string]any{"a": 2.0, "b": 2.0}}

	t.Run("not requested", func(t *testing.T) {
		sum := &stubSummarizer{enabled: true}
		svc := newTestService(t, nil, sum, nil)
		result, err := svc.CompareText(context.Background(), TextRequest{Left: left, Right: right})
		require.NoError(t, err)
		assert.False(t, result.Insights.Enabled)
		assert.Zero(t, sum.calls)
	})

	t.Run("summarizer disabled", func(t *testing.T) {
		sum := &stubSummarizer{enabled: false}
		svc := newTestService(t, nil, sum, nil)
		result, err := svc.CompareText(context.Background(), TextRequest{Left: left, Right: right, Insights: true})
		require.NoError(t, err)
		assert.False(t, result.Insights.Enabled)
		assert.Zero(t, sum.calls)
	})

	t.Run("success", func(t *testing.T) {
		sum := &stubSummarizer{enabled: true, out: &models.Insights{Enabled: true, Headline: "Total changed"}}
		svc := newTestService(t, nil, sum, nil)
		result, err := svc.CompareText(context.Background(), TextRequest{
			Left: left, Right: right, LeftName: "old.pdf", RightName: "new.pdf", Insights: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Total changed", result.Insights.Headline)
		assert.Equal(t, 1, sum.calls)
		assert.Equal(t, "old.pdf", sum.digest.Meta.LeftName)
		assert.Equal(t, "new.pdf", sum.digest.Meta.RightName)
		assert.Equal(t, 1, sum.digest.Meta.Additions)
		assert.Equal(t, 2, sum.digest.StructuredDiffTotal)
		assert.Len(t, sum.digest.StructuredDiffSample, 1)
	})

	t.Run("failure does not fail the comparison", func(t *testing.T) {
		sum := &stubSummarizer{enabled: true, err: errors.New("model unavailable")}
		svc := newTestService(t, nil, sum, nil)
		result, err := svc.CompareText(context.Background(), TextRequest{Left: left, Right: right, Insights: true})
		require.NoError(t, err)
		assert.True(t, result.Insights.Enabled)
		assert.Equal(t, "model unavailable", result.Insights.Error)
		assert.Equal(t, 1, result.Summary.Additions)
	})
}
