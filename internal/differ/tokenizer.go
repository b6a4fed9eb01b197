package differ

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aleister1102/docdiff/internal/models"
)

// wordPattern matches one countable word: letters/digits optionally joined by a
// single apostrophe or hyphen, so "don't" and "state-of-the-art" count once.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*`)

// Tokenize splits text into the comparison units for unit. Concatenating the
// returned tokens reproduces text byte-for-byte.
func Tokenize(text string, unit models.DiffUnit) []string {
	if text == "" {
		return nil
	}
	if unit == models.UnitLines {
		return tokenizeLines(text)
	}
	return tokenizeWords(text)
}

// tokenizeWords emits each non-whitespace run together with the whitespace that
// follows it. Leading whitespace becomes its own token.
func tokenizeWords(text string) []string {
	tokens := make([]string, 0, len(text)/6+1)

	i := skipWhile(text, 0, unicode.IsSpace)
	if i > 0 {
		tokens = append(tokens, text[:i])
	}

	start := i
	for i < len(text) {
		i = skipWhile(text, i, isNotSpace)
		i = skipWhile(text, i, unicode.IsSpace)
		tokens = append(tokens, text[start:i])
		start = i
	}
	return tokens
}

// tokenizeLines emits each line with its terminating newline. The empty piece
// after a final newline carries no bytes and is not emitted.
func tokenizeLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func skipWhile(text string, i int, pred func(rune) bool) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !pred(r) {
			break
		}
		i += size
	}
	return i
}

func isNotSpace(r rune) bool {
	return !unicode.IsSpace(r)
}

// CountWords returns the number of countable words in s. Punctuation-only runs
// are not words.
func CountWords(s string) int {
	if s == "" {
		return 0
	}
	return len(wordPattern.FindAllStringIndex(s, -1))
}

// CountLines returns the number of logical lines in s. A value ending exactly at
// a line boundary does not count a phantom empty line, and an empty value is zero.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	parts := strings.Split(s, "\n")
	n := len(parts)
	if parts[n-1] == "" {
		n--
	}
	return n
}

// SplitLogicalLines splits s into the logical lines CountLines counts, without
// their newline terminators.
func SplitLogicalLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// CountUnits counts s in the granularity of unit.
func CountUnits(s string, unit models.DiffUnit) int {
	if unit == models.UnitLines {
		return CountLines(s)
	}
	return CountWords(s)
}
