// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
	"github.com/gemaraproj/evidence-mcp/internal/evidence"
)

// MetadataRankEvidence describes the rank_evidence tool. Its input schema is
// inferred from InputRankEvidence.
var MetadataRankEvidence = &mcp.Tool{
	Name: "rank_evidence",
	Description: "Score candidate passages from one or more sources against a topic and query, " +
		"drop near-duplicates, rank by confidence and split the result into passages that can be " +
		"used as-is (approved) and passages a human should review first (needs_review). " +
		"Confidence is a weighted sum of authority, similarity, recency and license sub-scores. " +
		"Plain text and markdown sources are chunked first; yaml/json sources carry pre-split passages " +
		"under a \"passages\" list.",
}

// SourceInput is one source of candidate passages.
type SourceInput struct {
	Content  string `json:"content" jsonschema:"raw source content"`
	Format   string `json:"format,omitempty" jsonschema:"format hint: text, markdown, yaml or json. Auto-detected when omitted"`
	ID       string `json:"id,omitempty" jsonschema:"identifier used as the chunk id prefix"`
	Filename string `json:"filename,omitempty" jsonschema:"original filename"`
	Kind     string `json:"kind,omitempty" jsonschema:"source kind such as user-document, academic-paper, web-search-result or generated-text"`
	URL      string `json:"url,omitempty" jsonschema:"where the source was found"`
	Title    string `json:"title,omitempty" jsonschema:"source title"`
	Label    string `json:"label,omitempty" jsonschema:"label passages are attributed to"`
}

// InputRankEvidence is the input for the RankEvidence tool.
type InputRankEvidence struct {
	Topic   string        `json:"topic" jsonschema:"topic the passages must support"`
	Query   string        `json:"query,omitempty" jsonschema:"search query that produced the passages"`
	Sources []SourceInput `json:"sources" jsonschema:"sources in priority order: when two sources carry the same passage the earlier one wins"`

	AuthorityWeight        *float64 `json:"authority_weight,omitempty" jsonschema:"override for the authority weight"`
	SimilarityWeight       *float64 `json:"similarity_weight,omitempty" jsonschema:"override for the similarity weight"`
	RecencyWeight          *float64 `json:"recency_weight,omitempty" jsonschema:"override for the recency weight"`
	LicenseWeight          *float64 `json:"license_weight,omitempty" jsonschema:"override for the license weight"`
	MinConfidenceThreshold *float64 `json:"min_confidence_threshold,omitempty" jsonschema:"passages at or above this confidence are approved"`
	MaxEvidencePerTopic    *int     `json:"max_evidence_per_topic,omitempty" jsonschema:"maximum number of ranked passages returned"`
	CurrentYear            int      `json:"current_year,omitempty" jsonschema:"year recency is measured against. Defaults to the server's"`
}

// OutputRankEvidence is the output for the RankEvidence tool.
type OutputRankEvidence struct {
	Approved    []evidence.Evidence `json:"approved"`
	NeedsReview []evidence.Evidence `json:"needs_review"`
	// ParsersUsed holds the parser picked for each source, in input order.
	ParsersUsed []string `json:"parsers_used"`
	// PassageCount is the number of passages scored before deduplication and truncation.
	PassageCount int `json:"passage_count"`
}

// RankEvidence runs the evidence pipeline over the provided sources.
func (t *Tools) RankEvidence(ctx context.Context, _ *mcp.CallToolRequest, input InputRankEvidence) (*mcp.CallToolResult, OutputRankEvidence, error) {
	if strings.TrimSpace(input.Topic) == "" {
		return nil, OutputRankEvidence{}, fmt.Errorf("topic is required")
	}
	if len(input.Sources) == 0 {
		return nil, OutputRankEvidence{}, fmt.Errorf("at least one source is required")
	}

	year := t.year
	if input.CurrentYear > 0 {
		year = input.CurrentYear
	}
	scorer, err := evidence.NewScorer(input.scoringConfig(t.cfg.Scoring), year)
	if err != nil {
		return nil, OutputRankEvidence{}, err
	}
	chunker, err := chunking.NewChunker(t.cfg.Chunking)
	if err != nil {
		return nil, OutputRankEvidence{}, err
	}

	req := evidence.Request{Topic: input.Topic, Query: input.Query}
	for i, s := range input.Sources {
		if s.Content == "" {
			return nil, OutputRankEvidence{}, fmt.Errorf("source %d: content is required", i)
		}
		req.Sources = append(req.Sources, evidence.EvidenceSource{
			Content:  []byte(s.Content),
			Format:   s.Format,
			ID:       s.ID,
			Filename: s.Filename,
			Kind:     sourceKind(s.Kind),
			URL:      s.URL,
			Title:    s.Title,
			Label:    s.Label,
		})
	}

	result, err := t.pipeline(chunker, scorer).Run(ctx, req)
	if err != nil {
		return nil, OutputRankEvidence{}, err
	}
	return nil, OutputRankEvidence{
		Approved:     result.Approved,
		NeedsReview:  result.NeedsReview,
		ParsersUsed:  result.ParsersUsed,
		PassageCount: result.PassageCount,
	}, nil
}

func (in InputRankEvidence) scoringConfig(base evidence.ScoringConfig) evidence.ScoringConfig {
	cfg := base
	if in.AuthorityWeight != nil {
		cfg.AuthorityWeight = *in.AuthorityWeight
	}
	if in.SimilarityWeight != nil {
		cfg.SimilarityWeight = *in.SimilarityWeight
	}
	if in.RecencyWeight != nil {
		cfg.RecencyWeight = *in.RecencyWeight
	}
	if in.LicenseWeight != nil {
		cfg.LicenseWeight = *in.LicenseWeight
	}
	if in.MinConfidenceThreshold != nil {
		cfg.MinConfidenceThreshold = *in.MinConfidenceThreshold
	}
	if in.MaxEvidencePerTopic != nil {
		cfg.MaxEvidencePerTopic = *in.MaxEvidencePerTopic
	}
	return cfg
}

// sourceKind keeps an empty kind empty so parsers can apply their own
// default, and maps everything else onto the closed set.
func sourceKind(s string) evidence.SourceKind {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return evidence.ParseSourceKind(s)
}
