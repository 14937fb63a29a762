// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for a ScoringConfig the engine refuses to use.
var ErrInvalidConfig = errors.New("invalid scoring config")

// ScoringConfig weights the four sub-scores and controls reranking and gating.
//
// The weights are expected to sum to 1.0. They are not renormalised: a
// config whose weights sum above 1.0 can push raw confidence past 1.0 before
// clamping, and keeping the sum at 1.0 is the caller's job.
type ScoringConfig struct {
	AuthorityWeight        float64 `json:"authority_weight" yaml:"authority_weight"`
	SimilarityWeight       float64 `json:"similarity_weight" yaml:"similarity_weight"`
	RecencyWeight          float64 `json:"recency_weight" yaml:"recency_weight"`
	LicenseWeight          float64 `json:"license_weight" yaml:"license_weight"`
	MinConfidenceThreshold float64 `json:"min_confidence_threshold" yaml:"min_confidence_threshold"`
	MaxEvidencePerTopic    int     `json:"max_evidence_per_topic" yaml:"max_evidence_per_topic"`
	LanguagePreference     string  `json:"language_preference" yaml:"language_preference"`
}

// DefaultScoringConfig returns weights 0.40/0.35/0.15/0.10, threshold 0.6 and
// a cap of 15 passages per topic.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		AuthorityWeight:        0.40,
		SimilarityWeight:       0.35,
		RecencyWeight:          0.15,
		LicenseWeight:          0.10,
		MinConfidenceThreshold: 0.6,
		MaxEvidencePerTopic:    15,
		LanguagePreference:     "pt",
	}
}

// Validate rejects negative weights, a threshold outside [0,1] and a
// non-positive evidence cap.
func (c ScoringConfig) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"authority_weight", c.AuthorityWeight},
		{"similarity_weight", c.SimilarityWeight},
		{"recency_weight", c.RecencyWeight},
		{"license_weight", c.LicenseWeight},
	}
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, w.name, w.value)
		}
	}
	if c.MinConfidenceThreshold < 0 || c.MinConfidenceThreshold > 1 {
		return fmt.Errorf("%w: min_confidence_threshold must be within [0,1], got %v", ErrInvalidConfig, c.MinConfidenceThreshold)
	}
	if c.MaxEvidencePerTopic <= 0 {
		return fmt.Errorf("%w: max_evidence_per_topic must be positive, got %d", ErrInvalidConfig, c.MaxEvidencePerTopic)
	}
	return nil
}
