// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
)

// kindAuthority is the authority base per source kind.
var kindAuthority = map[SourceKind]float64{
	KindAcademicPaper:       0.9,
	KindUniversity:          0.85,
	KindEducationalPlatform: 0.7,
	KindUserDocument:        0.8,
	KindVideo:               0.5,
	KindWebSearchResult:     0.75,
	KindGeneratedText:       0.7,
	KindCommercialSite:      0.4,
	KindOther:               0.3,
}

// kindAuthorityFloor is the lowest authority a kind can end up with after
// bonuses and penalties.
var kindAuthorityFloor = map[SourceKind]float64{
	KindUserDocument: 0.8,
}

// kindLicense overrides domain-based licensing for kinds whose usage rights
// are known up front.
var kindLicense = map[SourceKind]float64{
	KindUserDocument:  1.0,
	KindGeneratedText: 0.9,
}

const (
	authorBonus          = 0.05
	shortContentChars    = 100
	shortContentPenalty  = 0.8
	defaultLicenseScore  = 0.7
	defaultRecencyScore  = 0.2
	defaultAuthorityBase = 0.3
)

// recencyBands are checked in order; the first band whose age bound is not
// reached gives the score.
var recencyBands = []struct {
	below int
	score float64
}{
	{2, 1.0},
	{5, 0.8},
	{10, 0.6},
	{20, 0.4},
}

// Authority scores how credible the source of e is.
func Authority(e Evidence) float64 {
	score, ok := kindAuthority[e.SourceKind]
	if !ok {
		score = defaultAuthorityBase
	}
	if e.URL != "" || e.Metadata.Domain != "" {
		if floor, ok := matchDomain(authorityDomainFloors, domainOf(e)); ok && floor > score {
			score = floor
		}
	}
	if len(e.Metadata.Authors) > 0 {
		score += authorBonus
	}
	if utf8.RuneCountInString(e.Content) < shortContentChars {
		score *= shortContentPenalty
	}
	if floor, ok := kindAuthorityFloor[e.SourceKind]; ok && score < floor {
		score = floor
	}
	return clamp01(score)
}

// Recency scores how current e is relative to currentYear. A user document
// without a publication year is treated as current; any other passage
// without one is assumed to be from currentYear.
func Recency(e Evidence, currentYear int) float64 {
	year := e.Metadata.PublicationYear
	if year == 0 {
		if e.SourceKind == KindUserDocument {
			return 1.0
		}
		year = currentYear
	}
	age := currentYear - year
	for _, band := range recencyBands {
		if age < band.below {
			return band.score
		}
	}
	return defaultRecencyScore
}

// License scores how freely the content of e may be used and cited.
func License(e Evidence) float64 {
	if score, ok := kindLicense[e.SourceKind]; ok {
		return score
	}
	if score, ok := matchDomain(licenseDomainScores, domainOf(e)); ok {
		return score
	}
	return defaultLicenseScore
}

// Confidence is the weighted sum of the sub-scores, clamped to [0,1]. The
// terms are always added in the same order so recomputation is exact.
func Confidence(s SubScores, cfg ScoringConfig) float64 {
	sum := cfg.AuthorityWeight * s.Authority
	sum += cfg.SimilarityWeight * s.Similarity
	sum += cfg.RecencyWeight * s.Recency
	sum += cfg.LicenseWeight * s.License
	return clamp01(sum)
}

// ScoreEvidence builds an Evidence from raw fields and scores it against a
// topic/query pair. currentYear drives the recency score.
func ScoreEvidence(raw RawEvidence, topic, query string, cfg ScoringConfig, currentYear int) Evidence {
	e := newEvidence(raw, topic, query)
	e.SubScores = SubScores{
		Authority:  Authority(e),
		Similarity: Similarity(&e, topic, query),
		Recency:    Recency(e, currentYear),
		License:    License(e),
	}
	e.Confidence = Confidence(e.SubScores, cfg)
	return e
}

func newEvidence(raw RawEvidence, topic, query string) Evidence {
	id := raw.ID
	if id == "" {
		id = passageID(raw.SourceLabel, raw.Content)
	}
	return Evidence{
		ID:          id,
		Content:     raw.Content,
		SourceLabel: raw.SourceLabel,
		SourceKind:  ParseSourceKind(raw.SourceKind),
		URL:         raw.URL,
		Title:       raw.Title,
		Metadata:    raw.Metadata,
		RelevanceContext: RelevanceContext{
			Topic:         topic,
			Query:         query,
			MatchingTerms: []string{},
		},
	}
}

// passageID derives a stable id from what a passage says and who said it.
func passageID(label, content string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(label+"\x00"+content)).String()
}

// FromChunk turns a document chunk into raw evidence attributed to src.
// Sources without a kind are treated as user documents.
func FromChunk(c chunking.Chunk, src EvidenceSource) RawEvidence {
	kind := src.Kind
	if kind == "" {
		kind = KindUserDocument
	}
	idx := c.Metadata.ChunkIndex
	meta := Metadata{
		Filename:   c.Metadata.Filename,
		ChunkIndex: &idx,
		UnitCount:  c.UnitCount,
	}
	if meta.Filename == "" {
		meta.Filename = src.Filename
	}
	title := src.Title
	if title == "" && c.Metadata.Section != "" {
		title = c.Metadata.Section
	}
	return RawEvidence{
		ID:          c.ID,
		Content:     c.Content,
		SourceLabel: src.DisplayLabel(),
		SourceKind:  string(kind),
		URL:         src.URL,
		Title:       title,
		Metadata:    meta,
	}
}

// Scorer scores passages with a validated config and a fixed current year.
type Scorer struct {
	cfg         ScoringConfig
	currentYear int
}

// NewScorer validates cfg. The current year is injected so results do not
// depend on when scoring runs.
func NewScorer(cfg ScoringConfig, currentYear int) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if currentYear <= 0 {
		return nil, fmt.Errorf("%w: current year must be positive, got %d", ErrInvalidConfig, currentYear)
	}
	return &Scorer{cfg: cfg, currentYear: currentYear}, nil
}

func (s *Scorer) Config() ScoringConfig { return s.cfg }

func (s *Scorer) CurrentYear() int { return s.currentYear }

// Score scores one passage.
func (s *Scorer) Score(raw RawEvidence, topic, query string) Evidence {
	return ScoreEvidence(raw, topic, query, s.cfg, s.currentYear)
}

// ScoreAll scores passages in order.
func (s *Scorer) ScoreAll(raws []RawEvidence, topic, query string) []Evidence {
	out := make([]Evidence, 0, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw.Content) == "" {
			continue
		}
		out = append(out, s.Score(raw, topic, query))
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
