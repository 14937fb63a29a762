// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	topicTermWeight  = 1.0
	queryTermWeight  = 0.7
	stemMatchWeight  = 0.5
	minTermRunes     = 3
	minStemmedRunes  = 5
	maxDensityBonus  = 0.2
	densityFactor    = 10.0
	snippetRadius    = 50
	snippetFallback  = 100
	snippetEllipsis  = "..."
	stemPercentNum   = 7
	stemPercentDenom = 10
)

// stopWords covers Portuguese and English function words.
var stopWords = func() map[string]struct{} {
	words := []string{
		// pt
		"que", "para", "com", "uma", "uns", "umas", "dos", "das", "nos", "nas", "por", "pelo", "pela",
		"pelos", "pelas", "como", "mais", "mas", "foi", "ser", "sao", "são", "tem", "têm", "seu", "sua",
		"seus", "suas", "ele", "ela", "eles", "elas", "isso", "isto", "este", "esta", "estes", "estas",
		"esse", "essa", "esses", "essas", "aquele", "aquela", "num", "numa", "sobre", "entre", "quando",
		"muito", "também", "tambem", "já", "ainda", "até", "ate", "sem", "nem", "qual", "quais", "onde",
		"não", "nao", "sim", "ou", "ao", "aos", "às", "de", "da", "do", "em", "um", "se", "na", "no",
		// en
		"the", "and", "for", "are", "was", "were", "been", "being", "this", "that", "these", "those",
		"from", "with", "into", "about", "between", "through", "during", "before", "after", "above",
		"below", "over", "under", "again", "further", "than", "such", "very", "can", "will", "just",
		"should", "now", "what", "which", "who", "how", "why", "not", "but", "you", "your", "its",
		"our", "their", "has", "have", "had", "does", "did",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

type weightedTerm struct {
	text   string
	weight float64
}

// Similarity scores the lexical overlap between the content of e and a
// topic/query pair and fills e.RelevanceContext with the matched terms and a
// snippet around the first match.
func Similarity(e *Evidence, topic, query string) float64 {
	terms := relevanceTerms(topic, query)
	source := norm.NFC.String(e.Content)
	content := strings.Map(unicode.ToLower, source)

	matched := make([]string, 0, len(terms))
	firstMatch := -1
	score := 0.0
	for _, t := range terms {
		if pos := strings.Index(content, t.text); pos >= 0 {
			score += t.weight
			matched = append(matched, t.text)
			if firstMatch < 0 {
				firstMatch = pos
			}
			continue
		}
		stem, ok := stemOf(t.text)
		if !ok {
			continue
		}
		if pos := strings.Index(content, stem); pos >= 0 {
			score += stemMatchWeight
			matched = append(matched, stem)
			if firstMatch < 0 {
				firstMatch = pos
			}
		}
	}

	e.RelevanceContext.MatchingTerms = matched
	e.RelevanceContext.ContextSnippet = snippet(source, content, firstMatch)

	if len(terms) == 0 {
		return 0
	}
	score /= float64(len(terms))
	if words := len(strings.Fields(content)); words > 0 && len(matched) > 0 {
		score += min(maxDensityBonus, densityFactor*float64(len(matched))/float64(words))
	}
	return clamp01(score)
}

// relevanceTerms extracts distinct terms from topic and query. A term found
// in both keeps the topic weight.
func relevanceTerms(topic, query string) []weightedTerm {
	seen := make(map[string]struct{})
	var out []weightedTerm
	add := func(text string, weight float64) {
		for _, term := range extractTerms(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			out = append(out, weightedTerm{text: term, weight: weight})
		}
	}
	add(topic, topicTermWeight)
	add(query, queryTermWeight)
	return out
}

func extractTerms(text string) []string {
	fields := strings.FieldsFunc(foldCase(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < minTermRunes {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// stemOf truncates a term to 70% of its runes. Short terms have no stem.
func stemOf(term string) (string, bool) {
	r := []rune(term)
	if len(r) < minStemmedRunes {
		return "", false
	}
	return string(r[:len(r)*stemPercentNum/stemPercentDenom]), true
}

// foldCase NFC-normalises and lowercases s so that precomposed and combining
// accents compare equal.
func foldCase(s string) string {
	return strings.Map(unicode.ToLower, norm.NFC.String(s))
}

// snippet returns up to snippetRadius runes of source either side of the
// match at byte offset at in folded, or the head of source when nothing
// matched. Case folding keeps rune positions, so they carry over.
func snippet(source, folded string, at int) string {
	r := []rune(source)
	if at < 0 {
		if len(r) <= snippetFallback {
			return source
		}
		return string(r[:snippetFallback]) + snippetEllipsis
	}
	center := len([]rune(folded[:at]))
	start := max(0, center-snippetRadius)
	end := min(len(r), center+snippetRadius)
	out := string(r[start:end])
	if start > 0 {
		out = snippetEllipsis + out
	}
	if end < len(r) {
		out += snippetEllipsis
	}
	return out
}
