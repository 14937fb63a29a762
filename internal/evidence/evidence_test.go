// SPDX-License-Identifier: Apache-2.0

package evidence_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
	"github.com/gemaraproj/evidence-mcp/internal/evidence"
)

const testYear = 2024

// longText is comfortably above the short-content penalty threshold.
var longText = strings.Repeat("Conteúdo suficientemente longo para evitar penalidade. ", 3)

// ---------------------------------------------------------------------------
// SourceKind
// ---------------------------------------------------------------------------

func TestParseSourceKind(t *testing.T) {
	assert.Equal(t, evidence.KindAcademicPaper, evidence.ParseSourceKind("academic-paper"))
	assert.Equal(t, evidence.KindVideo, evidence.ParseSourceKind(" Video "))
	assert.Equal(t, evidence.KindOther, evidence.ParseSourceKind("podcast"))
	assert.Equal(t, evidence.KindOther, evidence.ParseSourceKind(""))
}

// ---------------------------------------------------------------------------
// Authority
// ---------------------------------------------------------------------------

func TestAuthority(t *testing.T) {
	tests := []struct {
		name string
		ev   evidence.Evidence
		want float64
	}{
		{
			name: "commercial site without domain tier",
			ev:   evidence.Evidence{SourceKind: evidence.KindCommercialSite, URL: "https://example-shop.com", Content: longText},
			want: 0.4,
		},
		{
			name: "unknown kind base",
			ev:   evidence.Evidence{SourceKind: evidence.KindOther, Content: longText},
			want: 0.3,
		},
		{
			name: "journal domain raises web result",
			ev:   evidence.Evidence{SourceKind: evidence.KindWebSearchResult, URL: "https://www.nature.com/articles/x", Content: longText},
			want: 0.9,
		},
		{
			name: "generic academic suffix",
			ev:   evidence.Evidence{SourceKind: evidence.KindCommercialSite, URL: "https://ime.unesp.edu.br/curso", Content: longText},
			want: 0.8,
		},
		{
			name: "mooc floor never lowers the base",
			ev:   evidence.Evidence{SourceKind: evidence.KindAcademicPaper, URL: "https://www.coursera.org/learn", Content: longText},
			want: 0.9,
		},
		{
			name: "metadata domain counts like a url",
			ev: evidence.Evidence{
				SourceKind: evidence.KindVideo, Content: longText,
				Metadata: evidence.Metadata{Domain: "khanacademy.org"},
			},
			want: 0.6,
		},
		{
			name: "author bonus",
			ev: evidence.Evidence{
				SourceKind: evidence.KindAcademicPaper, Content: longText,
				Metadata: evidence.Metadata{Authors: []string{"Silva, A."}},
			},
			want: 0.95,
		},
		{
			name: "elite domain with authors clamps to one",
			ev: evidence.Evidence{
				SourceKind: evidence.KindUniversity, URL: "https://ocw.mit.edu/calc", Content: longText,
				Metadata: evidence.Metadata{Authors: []string{"Strang, G."}},
			},
			want: 1.0,
		},
		{
			name: "short content penalty",
			ev:   evidence.Evidence{SourceKind: evidence.KindAcademicPaper, Content: "curto"},
			want: 0.72,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, evidence.Authority(tt.ev), 1e-9)
		})
	}
}

func TestAuthority_UserDocumentFloor(t *testing.T) {
	cases := []evidence.Evidence{
		{SourceKind: evidence.KindUserDocument, Content: "x"},
		{SourceKind: evidence.KindUserDocument, Content: "x", URL: "https://example-shop.com"},
		{SourceKind: evidence.KindUserDocument, Content: "x", URL: "https://mit.edu"},
		{SourceKind: evidence.KindUserDocument, Content: longText},
	}
	for _, ev := range cases {
		got := evidence.Authority(ev)
		assert.GreaterOrEqual(t, got, 0.8)
		assert.LessOrEqual(t, got, 1.0)
	}
}

// ---------------------------------------------------------------------------
// Similarity
// ---------------------------------------------------------------------------

func TestSimilarity_OneOfTwoTermsMatches(t *testing.T) {
	ev := evidence.Evidence{Content: "Aulas de cálculo diferencial e integral"}

	got := evidence.Similarity(&ev, "cálculo", "derivadas")

	// 1.0 of 2 terms, plus the capped density bonus
	assert.InDelta(t, 0.7, got, 1e-9)
	assert.Equal(t, []string{"cálculo"}, ev.RelevanceContext.MatchingTerms)
	assert.Equal(t, "Aulas de cálculo diferencial e integral", ev.RelevanceContext.ContextSnippet)
}

func TestSimilarity_StemMatch(t *testing.T) {
	ev := evidence.Evidence{Content: "Curso de programa avançado"}

	got := evidence.Similarity(&ev, "programação", "")

	assert.InDelta(t, 0.7, got, 1e-9)
	assert.Equal(t, []string{"program"}, ev.RelevanceContext.MatchingTerms)
}

func TestSimilarity_QueryTermWeight(t *testing.T) {
	ev := evidence.Evidence{Content: "As derivadas parciais"}

	got := evidence.Similarity(&ev, "", "derivadas")

	assert.InDelta(t, 0.9, got, 1e-9)
}

func TestSimilarity_CaseAndNormalisation(t *testing.T) {
	// decomposed "á" in the content, precomposed in the topic
	ev := evidence.Evidence{Content: "CA\u0301LCULO avançado para engenharia e ciências exatas"}

	got := evidence.Similarity(&ev, "cálculo", "")

	assert.Greater(t, got, 0.0)
	assert.Equal(t, []string{"cálculo"}, ev.RelevanceContext.MatchingTerms)
}

func TestSimilarity_NoMatch(t *testing.T) {
	content := strings.Repeat("a", 150)
	ev := evidence.Evidence{Content: content}

	got := evidence.Similarity(&ev, "geometria", "vetores")

	assert.Zero(t, got)
	assert.Empty(t, ev.RelevanceContext.MatchingTerms)
	assert.Equal(t, strings.Repeat("a", 100)+"...", ev.RelevanceContext.ContextSnippet)
}

func TestSimilarity_OnlyStopWords(t *testing.T) {
	ev := evidence.Evidence{Content: "the cat and the dog"}

	assert.Zero(t, evidence.Similarity(&ev, "the and", "of"))
	assert.Equal(t, "the cat and the dog", ev.RelevanceContext.ContextSnippet)
}

func TestSimilarity_SnippetWindow(t *testing.T) {
	content := strings.Repeat("x", 80) + " topologia " + strings.Repeat("y", 80)
	ev := evidence.Evidence{Content: content}

	evidence.Similarity(&ev, "topologia", "")

	snippet := ev.RelevanceContext.ContextSnippet
	assert.True(t, strings.HasPrefix(snippet, "..."))
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.Contains(t, snippet, "topologia")
}

func TestSimilarity_Bounded(t *testing.T) {
	ev := evidence.Evidence{Content: "cálculo cálculo derivadas integral"}
	got := evidence.Similarity(&ev, "cálculo integral", "derivadas")
	assert.LessOrEqual(t, got, 1.0)
	assert.GreaterOrEqual(t, got, 0.0)
}

// ---------------------------------------------------------------------------
// Recency and License
// ---------------------------------------------------------------------------

func TestRecency(t *testing.T) {
	tests := []struct {
		name string
		kind evidence.SourceKind
		year int
		want float64
	}{
		{"user document without year", evidence.KindUserDocument, 0, 1.0},
		{"missing year counts as current", evidence.KindWebSearchResult, 0, 1.0},
		{"one year old", evidence.KindAcademicPaper, 2023, 1.0},
		{"four years old", evidence.KindAcademicPaper, 2020, 0.8},
		{"nine years old", evidence.KindAcademicPaper, 2015, 0.6},
		{"nineteen years old", evidence.KindAcademicPaper, 2005, 0.4},
		{"twenty years old", evidence.KindAcademicPaper, 2004, 0.2},
		{"future year", evidence.KindAcademicPaper, 2030, 1.0},
		{"user document with old year", evidence.KindUserDocument, 1990, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := evidence.Evidence{SourceKind: tt.kind, Metadata: evidence.Metadata{PublicationYear: tt.year}}
			assert.Equal(t, tt.want, evidence.Recency(ev, testYear))
		})
	}
}

func TestRecency_NonIncreasingWithAge(t *testing.T) {
	prev := 1.0
	for year := testYear; year >= testYear-40; year-- {
		ev := evidence.Evidence{SourceKind: evidence.KindAcademicPaper, Metadata: evidence.Metadata{PublicationYear: year}}
		got := evidence.Recency(ev, testYear)
		assert.LessOrEqual(t, got, prev, "year %d", year)
		prev = got
	}
}

func TestLicense(t *testing.T) {
	tests := []struct {
		name string
		ev   evidence.Evidence
		want float64
	}{
		{"user document", evidence.Evidence{SourceKind: evidence.KindUserDocument, URL: "https://sciencedirect.com"}, 1.0},
		{"generated text", evidence.Evidence{SourceKind: evidence.KindGeneratedText}, 0.9},
		{"preprint server", evidence.Evidence{SourceKind: evidence.KindWebSearchResult, URL: "https://arxiv.org/abs/1"}, 1.0},
		{"government domain", evidence.Evidence{SourceKind: evidence.KindWebSearchResult, URL: "https://www.mec.gov.br"}, 1.0},
		{"encyclopedia", evidence.Evidence{SourceKind: evidence.KindWebSearchResult, URL: "https://pt.wikipedia.org/wiki/C"}, 1.0},
		{"academic suffix", evidence.Evidence{SourceKind: evidence.KindUniversity, URL: "https://cs.stanford.edu"}, 0.8},
		{"mooc", evidence.Evidence{SourceKind: evidence.KindEducationalPlatform, URL: "https://www.edx.org/course"}, 0.6},
		{"commercial journal", evidence.Evidence{SourceKind: evidence.KindAcademicPaper, URL: "https://link.springer.com/x"}, 0.4},
		{"unknown domain", evidence.Evidence{SourceKind: evidence.KindCommercialSite, URL: "https://example-shop.com"}, 0.7},
		{"no url", evidence.Evidence{SourceKind: evidence.KindVideo}, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evidence.License(tt.ev))
		})
	}
}

// ---------------------------------------------------------------------------
// Confidence and ScoreEvidence
// ---------------------------------------------------------------------------

func TestConfidence(t *testing.T) {
	cfg := evidence.DefaultScoringConfig()

	got := evidence.Confidence(evidence.SubScores{Authority: 0.5, Similarity: 1, Recency: 0, License: 1}, cfg)
	assert.InDelta(t, 0.2+0.35+0.1, got, 1e-12)

	assert.LessOrEqual(t, evidence.Confidence(evidence.SubScores{Authority: 1, Similarity: 1, Recency: 1, License: 1}, cfg), 1.0)
}

func TestConfidence_NoRenormalisation(t *testing.T) {
	cfg := evidence.DefaultScoringConfig()
	cfg.AuthorityWeight, cfg.SimilarityWeight, cfg.RecencyWeight, cfg.LicenseWeight = 0.2, 0.2, 0.1, 0

	got := evidence.Confidence(evidence.SubScores{Authority: 1, Similarity: 1, Recency: 1, License: 1}, cfg)
	assert.InDelta(t, 0.5, got, 1e-12)

	cfg.AuthorityWeight, cfg.SimilarityWeight = 1, 1
	assert.Equal(t, 1.0, evidence.Confidence(evidence.SubScores{Authority: 1, Similarity: 1}, cfg))
}

func TestScoreEvidence(t *testing.T) {
	cfg := evidence.DefaultScoringConfig()
	raw := evidence.RawEvidence{
		Content:     "Aulas de cálculo diferencial e integral",
		SourceLabel: "apostila.pdf",
		SourceKind:  "user-document",
	}

	ev := evidence.ScoreEvidence(raw, "cálculo", "derivadas", cfg, testYear)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, evidence.KindUserDocument, ev.SourceKind)
	assert.Equal(t, "cálculo", ev.RelevanceContext.Topic)
	assert.Equal(t, "derivadas", ev.RelevanceContext.Query)
	assert.Equal(t, evidence.SubScores{Authority: 0.8, Similarity: ev.SubScores.Similarity, Recency: 1, License: 1}, ev.SubScores)
	assert.InDelta(t, 0.7, ev.SubScores.Similarity, 1e-9)
	assert.Equal(t, evidence.Confidence(ev.SubScores, cfg), ev.Confidence)

	again := evidence.ScoreEvidence(raw, "cálculo", "derivadas", cfg, testYear)
	assert.Equal(t, ev, again, "scoring must be deterministic")
}

func TestScoreEvidence_KeepsGivenID(t *testing.T) {
	ev := evidence.ScoreEvidence(evidence.RawEvidence{ID: "p-1", Content: "x", SourceKind: "nonsense"},
		"", "", evidence.DefaultScoringConfig(), testYear)
	assert.Equal(t, "p-1", ev.ID)
	assert.Equal(t, evidence.KindOther, ev.SourceKind)
	assert.NotNil(t, ev.RelevanceContext.MatchingTerms)
}

func TestScoreEvidence_DerivedIDsDifferByContent(t *testing.T) {
	cfg := evidence.DefaultScoringConfig()
	a := evidence.ScoreEvidence(evidence.RawEvidence{Content: "a", SourceLabel: "s"}, "", "", cfg, testYear)
	b := evidence.ScoreEvidence(evidence.RawEvidence{Content: "b", SourceLabel: "s"}, "", "", cfg, testYear)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestScoreEvidence_SubScoresInRange(t *testing.T) {
	cfg := evidence.DefaultScoringConfig()
	kinds := []string{"academic-paper", "university", "educational-platform", "commercial-site",
		"user-document", "video", "web-search-result", "generated-text", "other"}
	for _, kind := range kinds {
		raw := evidence.RawEvidence{
			Content: "cálculo", SourceKind: kind, URL: "https://mit.edu",
			Metadata: evidence.Metadata{Authors: []string{"a"}, PublicationYear: 1950},
		}
		ev := evidence.ScoreEvidence(raw, "cálculo", "cálculo", cfg, testYear)
		for _, v := range []float64{ev.SubScores.Authority, ev.SubScores.Similarity, ev.SubScores.Recency, ev.SubScores.License, ev.Confidence} {
			assert.GreaterOrEqual(t, v, 0.0, kind)
			assert.LessOrEqual(t, v, 1.0, kind)
		}
	}
}

func TestFromChunk(t *testing.T) {
	c := chunking.Chunk{
		ID:        "notas_chunk_0",
		Content:   "Texto",
		UnitCount: 2,
		Metadata:  chunking.Metadata{SourceID: "notas", ChunkIndex: 0, TotalChunks: 1, Section: "INTRODUÇÃO"},
	}

	raw := evidence.FromChunk(c, evidence.EvidenceSource{Filename: "notas.txt"})

	assert.Equal(t, "notas_chunk_0", raw.ID)
	assert.Equal(t, "notas.txt", raw.SourceLabel)
	assert.Equal(t, "user-document", raw.SourceKind)
	assert.Equal(t, "INTRODUÇÃO", raw.Title)
	assert.Equal(t, "notas.txt", raw.Metadata.Filename)
	require.NotNil(t, raw.Metadata.ChunkIndex)
	assert.Equal(t, 0, *raw.Metadata.ChunkIndex)
	assert.Equal(t, 2, raw.Metadata.UnitCount)
}

// ---------------------------------------------------------------------------
// Config and Scorer
// ---------------------------------------------------------------------------

func TestScoringConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*evidence.ScoringConfig)
		ok     bool
	}{
		{"default", func(*evidence.ScoringConfig) {}, true},
		{"negative weight", func(c *evidence.ScoringConfig) { c.RecencyWeight = -0.1 }, false},
		{"threshold above one", func(c *evidence.ScoringConfig) { c.MinConfidenceThreshold = 1.1 }, false},
		{"threshold below zero", func(c *evidence.ScoringConfig) { c.MinConfidenceThreshold = -0.1 }, false},
		{"zero cap", func(c *evidence.ScoringConfig) { c.MaxEvidencePerTopic = 0 }, false},
		{"weights not summing to one are accepted", func(c *evidence.ScoringConfig) { c.AuthorityWeight = 0.9 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := evidence.DefaultScoringConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, evidence.ErrInvalidConfig)
		})
	}
}

func TestNewScorer(t *testing.T) {
	s, err := evidence.NewScorer(evidence.DefaultScoringConfig(), testYear)
	require.NoError(t, err)
	assert.Equal(t, testYear, s.CurrentYear())

	_, err = evidence.NewScorer(evidence.DefaultScoringConfig(), 0)
	assert.ErrorIs(t, err, evidence.ErrInvalidConfig)

	bad := evidence.DefaultScoringConfig()
	bad.MaxEvidencePerTopic = -1
	_, err = evidence.NewScorer(bad, testYear)
	assert.ErrorIs(t, err, evidence.ErrInvalidConfig)
}

func TestScorer_ScoreAllSkipsBlankPassages(t *testing.T) {
	s, err := evidence.NewScorer(evidence.DefaultScoringConfig(), testYear)
	require.NoError(t, err)

	got := s.ScoreAll([]evidence.RawEvidence{{Content: "a"}, {Content: "  "}, {Content: "b"}}, "t", "q")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, "b", got[1].Content)
}
