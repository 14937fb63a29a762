// SPDX-License-Identifier: Apache-2.0

package chunking

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	summarySentences = 2
	summaryMaxChars  = 150
)

// FilterByRelevance keeps chunks whose RelevanceScore is at least minScore,
// ordered by descending score. Ties keep their input order.
func FilterByRelevance(chunks []Chunk, minScore float64) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.RelevanceScore >= minScore {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}

// MergeSmallChunks groups consecutive chunks while the group's unit total
// stays within maxUnits. Single-member groups pass through unchanged; larger
// groups become one chunk joined by blank lines that keeps the first
// member's id and metadata. The merged UnitCount is the sum of its members,
// which makes a second pass over the output a no-op. minUnits does not
// affect grouping.
func MergeSmallChunks(chunks []Chunk, minUnits, maxUnits int) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	var group []Chunk
	sum := 0

	flush := func() {
		switch len(group) {
		case 0:
			return
		case 1:
			out = append(out, group[0])
		default:
			out = append(out, mergeGroup(group, sum))
		}
		group = nil
		sum = 0
	}

	for _, c := range chunks {
		if len(group) > 0 && sum+c.UnitCount > maxUnits {
			flush()
		}
		group = append(group, c)
		sum += c.UnitCount
	}
	flush()
	return out
}

func mergeGroup(group []Chunk, units int) Chunk {
	parts := make([]string, len(group))
	for i, c := range group {
		parts[i] = c.Content
	}
	merged := group[0]
	merged.Content = strings.Join(parts, "\n\n")
	merged.UnitCount = units
	return merged
}

// SummarizedChunk pairs a chunk with its extractive summary.
type SummarizedChunk struct {
	Chunk   Chunk  `json:"chunk" yaml:"chunk"`
	Summary string `json:"summary" yaml:"summary"`
}

// Summarize attaches to every chunk its first two sentences, cut to 150
// characters with a trailing ellipsis when cut.
func Summarize(chunks []Chunk) []SummarizedChunk {
	out := make([]SummarizedChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, SummarizedChunk{Chunk: c, Summary: summaryOf(c.Content)})
	}
	return out
}

func summaryOf(content string) string {
	sentences := SplitSentences(content)
	if len(sentences) > summarySentences {
		sentences = sentences[:summarySentences]
	}
	return truncateRunes(strings.Join(sentences, " "), summaryMaxChars)
}

// truncateRunes cuts s to n runes and appends "..." when anything was cut.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
