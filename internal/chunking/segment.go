// SPDX-License-Identifier: Apache-2.0

package chunking

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// The character-to-unit ratio is 3.5 characters per unit, kept as a fraction
// so estimates stay in integer arithmetic.
const (
	charsPerUnitNum = 7
	charsPerUnitDen = 2
)

// EstimateUnits approximates the number of semantic units in text as
// ceil(characters / 3.5). Characters are counted as runes.
func EstimateUnits(text string) int {
	return unitsForRunes(utf8.RuneCountInString(text))
}

func unitsForRunes(n int) int {
	return (n*charsPerUnitDen + charsPerUnitNum - 1) / charsPerUnitNum
}

// unitsToChars converts a unit budget back into a character width.
func unitsToChars(units int) int {
	return units * charsPerUnitNum / charsPerUnitDen
}

// abbreviations never end a sentence even when followed by a capitalised word.
var abbreviations = map[string]struct{}{
	"Dr": {}, "Dra": {}, "Sr": {}, "Sra": {}, "Srta": {}, "Prof": {}, "Profa": {},
	"Fig": {}, "Eq": {}, "etc": {}, "vs": {}, "Jr": {}, "Mr": {}, "Mrs": {}, "Ms": {},
	"Vol": {}, "Cap": {}, "Ed": {}, "Obs": {},
}

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// span is a half-open byte range [start, end) into a source string.
type span struct {
	start, end int
}

// trimSpan narrows [start, end) so that it excludes surrounding whitespace.
func trimSpan(text string, start, end int) span {
	seg := text[start:end]
	trimmedLeft := strings.TrimLeftFunc(seg, unicode.IsSpace)
	start += len(seg) - len(trimmedLeft)
	end = start + len(strings.TrimRightFunc(trimmedLeft, unicode.IsSpace))
	return span{start, end}
}

// SplitSentences splits text on '.', '!' or '?' followed by whitespace and a
// capital letter. Known abbreviations and single-letter initials do not end a
// sentence. Returned sentences are trimmed and non-empty.
func SplitSentences(text string) []string {
	return spanStrings(text, sentenceSpans(text, 0, len(text)))
}

// SplitParagraphs splits text on blank lines. Returned paragraphs are trimmed
// and non-empty.
func SplitParagraphs(text string) []string {
	return spanStrings(text, paragraphSpans(text))
}

func spanStrings(text string, spans []span) []string {
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, text[s.start:s.end])
	}
	return out
}

func paragraphSpans(text string) []span {
	var spans []span
	cursor := 0
	appendSpan := func(end int) {
		s := trimSpan(text, cursor, end)
		if s.end > s.start {
			spans = append(spans, s)
		}
	}
	for _, sep := range paragraphBreak.FindAllStringIndex(text, -1) {
		appendSpan(sep[0])
		cursor = sep[1]
	}
	appendSpan(len(text))
	return spans
}

// sentenceSpans finds sentence spans inside text[from:to].
func sentenceSpans(text string, from, to int) []span {
	var spans []span
	cursor := from
	for i := from; i < to; {
		r, size := utf8.DecodeRuneInString(text[i:to])
		next := i + size
		if isTerminal(r) && isBoundary(text, from, i, next, to) {
			s := trimSpan(text, cursor, next)
			if s.end > s.start {
				spans = append(spans, s)
			}
			cursor = next
		}
		i = next
	}
	if s := trimSpan(text, cursor, to); s.end > s.start {
		spans = append(spans, s)
	}
	return spans
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// isBoundary reports whether the terminal mark at text[pos:after] ends a sentence.
func isBoundary(text string, from, pos, after, to int) bool {
	// whitespace, then a capital letter
	rest := text[after:to]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(trimmed) == len(rest) || trimmed == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsUpper(first) {
		return false
	}

	word := precedingWord(text[from:pos])
	if word == "" {
		return true
	}
	if _, ok := abbreviations[word]; ok {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// precedingWord returns the last whitespace-delimited token of s with
// surrounding punctuation removed.
func precedingWord(s string) string {
	if idx := strings.LastIndexFunc(s, unicode.IsSpace); idx >= 0 {
		_, size := utf8.DecodeRuneInString(s[idx:])
		s = s[idx+size:]
	}
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
