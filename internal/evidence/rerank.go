// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// dedupPrefixRunes is how much of a passage's content takes part in its
// duplicate key.
const dedupPrefixRunes = 100

// Rerank orders evidence by confidence, then authority, then similarity, all
// descending, and keeps at most cfg.MaxEvidencePerTopic items. Ties keep their
// input order. The input slice is not modified.
func Rerank(list []Evidence, cfg ScoringConfig) []Evidence {
	out := make([]Evidence, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.SubScores.Authority != b.SubScores.Authority {
			return a.SubScores.Authority > b.SubScores.Authority
		}
		return a.SubScores.Similarity > b.SubScores.Similarity
	})
	if cfg.MaxEvidencePerTopic > 0 && len(out) > cfg.MaxEvidencePerTopic {
		out = out[:cfg.MaxEvidencePerTopic]
	}
	return out
}

// Deduplicate drops every passage whose source label and first 100 characters
// of content were already seen. Survivors keep their relative order.
func Deduplicate(list []Evidence) []Evidence {
	seen := make(map[uint64]struct{}, len(list))
	out := make([]Evidence, 0, len(list))
	for _, e := range list {
		k := dedupKey(e)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

func dedupKey(e Evidence) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(e.SourceLabel)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(prefixRunes(e.Content, dedupPrefixRunes))
	return d.Sum64()
}

func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// CombineSources concatenates lists in argument order, deduplicates and
// reranks the result. When two sources carry the same passage, the one passed
// first wins.
func CombineSources(cfg ScoringConfig, lists ...[]Evidence) []Evidence {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	all := make([]Evidence, 0, total)
	for _, l := range lists {
		all = append(all, l...)
	}
	return Rerank(Deduplicate(all), cfg)
}

// GateForReview splits evidence into passages at or above the confidence
// threshold and passages below it. Both keep input order.
func GateForReview(list []Evidence, cfg ScoringConfig) (approved, needsReview []Evidence) {
	approved = []Evidence{}
	needsReview = []Evidence{}
	for _, e := range list {
		if e.Confidence >= cfg.MinConfidenceThreshold {
			approved = append(approved, e)
		} else {
			needsReview = append(needsReview, e)
		}
	}
	return approved, needsReview
}
