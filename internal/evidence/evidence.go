// SPDX-License-Identifier: Apache-2.0

// Package evidence scores candidate passages, deduplicates and reranks them,
// and splits them into passages that can be used as-is and passages a human
// has to review first.
package evidence

import (
	"context"
	"strings"
)

// SourceKind is the closed set of source categories an Evidence can come from.
type SourceKind string

const (
	KindAcademicPaper       SourceKind = "academic-paper"
	KindUniversity          SourceKind = "university"
	KindEducationalPlatform SourceKind = "educational-platform"
	KindCommercialSite      SourceKind = "commercial-site"
	KindUserDocument        SourceKind = "user-document"
	KindVideo               SourceKind = "video"
	KindWebSearchResult     SourceKind = "web-search-result"
	KindGeneratedText       SourceKind = "generated-text"
	KindOther               SourceKind = "other"
)

var knownKinds = map[SourceKind]struct{}{
	KindAcademicPaper: {}, KindUniversity: {}, KindEducationalPlatform: {},
	KindCommercialSite: {}, KindUserDocument: {}, KindVideo: {},
	KindWebSearchResult: {}, KindGeneratedText: {}, KindOther: {},
}

// ParseSourceKind maps a free-form kind onto the closed set. Unknown and
// empty values become KindOther.
func ParseSourceKind(s string) SourceKind {
	k := SourceKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownKinds[k]; ok {
		return k
	}
	return KindOther
}

type SubScores struct {
	Authority  float64 `json:"authority" yaml:"authority"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Recency    float64 `json:"recency" yaml:"recency"`
	License    float64 `json:"license" yaml:"license"`
}

// Metadata holds optional attributes of a passage. Zero values mean "absent";
// ChunkIndex and Page are pointers because zero is a valid value for them.
type Metadata struct {
	Domain          string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	PublicationYear int      `json:"publication_year,omitempty" yaml:"publication_year,omitempty"`
	Authors         []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Filename        string   `json:"filename,omitempty" yaml:"filename,omitempty"`
	Page            *int     `json:"page,omitempty" yaml:"page,omitempty"`
	ChunkIndex      *int     `json:"chunk_index,omitempty" yaml:"chunk_index,omitempty"`
	UnitCount       int      `json:"unit_count,omitempty" yaml:"unit_count,omitempty"`
	Language        string   `json:"language,omitempty" yaml:"language,omitempty"`
}

// RelevanceContext explains why a passage matched a topic/query pair.
type RelevanceContext struct {
	Topic          string   `json:"topic" yaml:"topic"`
	Query          string   `json:"query" yaml:"query"`
	MatchingTerms  []string `json:"matching_terms" yaml:"matching_terms"`
	ContextSnippet string   `json:"context_snippet" yaml:"context_snippet"`
}

// Evidence is a scored, attributable candidate passage.
type Evidence struct {
	ID               string           `json:"id" yaml:"id"`
	Content          string           `json:"content" yaml:"content"`
	SourceLabel      string           `json:"source_label" yaml:"source_label"`
	SourceKind       SourceKind       `json:"source_kind" yaml:"source_kind"`
	URL              string           `json:"url,omitempty" yaml:"url,omitempty"`
	Title            string           `json:"title,omitempty" yaml:"title,omitempty"`
	SubScores        SubScores        `json:"sub_scores" yaml:"sub_scores"`
	Confidence       float64          `json:"confidence" yaml:"confidence"`
	Metadata         Metadata         `json:"metadata" yaml:"metadata"`
	RelevanceContext RelevanceContext `json:"relevance_context" yaml:"relevance_context"`
}

// RawEvidence is an unscored passage as handed over by a source collaborator.
type RawEvidence struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Content     string   `json:"content" yaml:"content"`
	SourceLabel string   `json:"source_label,omitempty" yaml:"source_label,omitempty"`
	SourceKind  string   `json:"source_kind,omitempty" yaml:"source_kind,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// EvidenceSource describes the raw input to the evidence pipeline.
type EvidenceSource struct {
	// Content is the raw document content.
	Content []byte
	// Format is an optional hint used to pick a parser.
	Format   string
	ID       string
	Filename string
	// Kind, URL, Title and Label describe where the content came from and
	// are inherited by every passage that does not say otherwise.
	Kind  SourceKind
	URL   string
	Title string
	Label string
}

// DisplayLabel is the label passages of this source are attributed to.
func (s EvidenceSource) DisplayLabel() string {
	switch {
	case s.Label != "":
		return s.Label
	case s.Filename != "":
		return s.Filename
	case s.Title != "":
		return s.Title
	}
	return s.ID
}

// EvidenceParser turns one source into unscored passages.
type EvidenceParser interface {
	CanHandle(source EvidenceSource) bool
	Parse(ctx context.Context, source EvidenceSource) ([]RawEvidence, error)
	Name() string
}
