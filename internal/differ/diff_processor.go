package differ

import (
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
	// maxTokens bounds the token alphabet; every token index maps to one
	// valid, non-surrogate rune.
	maxTokens = 0x10FFFF - (surrogateMax - surrogateMin + 1)
)

// DiffProcessor handles the core diffing logic
type DiffProcessor struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config DiffConfig
}

// NewDiffProcessor creates a new diff processor
func NewDiffProcessor(config DiffConfig) *DiffProcessor {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = config.Timeout
	return &DiffProcessor{
		dmp:    dmp,
		config: config,
	}
}

// ProcessDiff generates the edit script between left and right in the given unit.
// The result is never nil, satisfies the reconstruction invariant and holds
// maximal segments only.
func (dp *DiffProcessor) ProcessDiff(left, right string, unit models.DiffUnit) []models.EditSegment {
	switch {
	case left == right && left == "":
		return []models.EditSegment{}
	case left == right:
		return []models.EditSegment{{Value: left, Kind: models.SegmentUnchanged}}
	case left == "":
		return []models.EditSegment{{Value: right, Kind: models.SegmentInserted}}
	case right == "":
		return []models.EditSegment{{Value: left, Kind: models.SegmentRemoved}}
	}

	leftTokens := Tokenize(left, unit)
	rightTokens := Tokenize(right, unit)

	table := newTokenTable(len(leftTokens) + len(rightTokens))
	a, okA := table.encode(leftTokens)
	b, okB := table.encode(rightTokens)
	if !okA || !okB {
		// Alphabet exhausted; fall back to a character-level script, which still
		// reconstructs both sides exactly.
		return dp.collect(dp.dmp.DiffMain(left, right, false), nil)
	}

	return dp.collect(dp.dmp.DiffMainRunes(a, b, false), table)
}

// collect converts diffmatchpatch output into maximal edit segments.
func (dp *DiffProcessor) collect(diffs []diffmatchpatch.Diff, table *tokenTable) []models.EditSegment {
	segments := make([]models.EditSegment, 0, len(diffs))
	for _, d := range diffs {
		value := d.Text
		if table != nil {
			value = table.decode(d.Text)
		}
		segments = appendSegment(segments, mapDiffOperation(d.Type), value)
	}
	return segments
}

// appendSegment appends value as kind, merging into the previous segment when it
// has the same kind. Empty values are dropped.
func appendSegment(segments []models.EditSegment, kind models.SegmentKind, value string) []models.EditSegment {
	if value == "" {
		return segments
	}
	if n := len(segments); n > 0 && segments[n-1].Kind == kind {
		segments[n-1].Value += value
		return segments
	}
	return append(segments, models.EditSegment{Value: value, Kind: kind})
}

// mapDiffOperation maps diffmatchpatch operation to models segment kind
func mapDiffOperation(op diffmatchpatch.Operation) models.SegmentKind {
	switch op {
	case diffmatchpatch.DiffInsert:
		return models.SegmentInserted
	case diffmatchpatch.DiffDelete:
		return models.SegmentRemoved
	default:
		return models.SegmentUnchanged
	}
}

// tokenTable interns tokens so that each distinct token is one rune, letting the
// rune-level Myers bisection in diffmatchpatch align whole tokens.
type tokenTable struct {
	index  map[string]rune
	tokens []string
}

func newTokenTable(sizeHint int) *tokenTable {
	return &tokenTable{
		index:  make(map[string]rune, sizeHint),
		tokens: make([]string, 0, sizeHint),
	}
}

func (t *tokenTable) encode(tokens []string) ([]rune, bool) {
	out := make([]rune, len(tokens))
	for i, tok := range tokens {
		r, ok := t.index[tok]
		if !ok {
			if len(t.tokens) >= maxTokens {
				return nil, false
			}
			r = indexToRune(len(t.tokens))
			t.index[tok] = r
			t.tokens = append(t.tokens, tok)
		}
		out[i] = r
	}
	return out, true
}

func (t *tokenTable) decode(encoded string) string {
	var size int
	runes := []rune(encoded)
	for _, r := range runes {
		size += len(t.tokens[runeToIndex(r)])
	}
	buf := make([]byte, 0, size)
	for _, r := range runes {
		buf = append(buf, t.tokens[runeToIndex(r)]...)
	}
	return string(buf)
}

func indexToRune(i int) rune {
	if i >= surrogateMin {
		i += surrogateMax - surrogateMin + 1
	}
	return rune(i)
}

func runeToIndex(r rune) int {
	i := int(r)
	if i > surrogateMax {
		i -= surrogateMax - surrogateMin + 1
	}
	return i
}
