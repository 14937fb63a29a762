// SPDX-License-Identifier: Apache-2.0

// Package chunking splits long documents into bounded, trimmed passages that
// carry their position and provenance. All functions are pure: they never
// mutate their inputs and are safe to call from multiple goroutines.
package chunking

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a Config cannot drive the chunk builder.
var ErrInvalidConfig = errors.New("invalid chunking config")

// Metadata locates a chunk inside its source document.
// StartOffset and EndOffset are byte offsets into the original text.
type Metadata struct {
	SourceID    string `json:"source_id" yaml:"source_id"`
	ChunkIndex  int    `json:"chunk_index" yaml:"chunk_index"`
	TotalChunks int    `json:"total_chunks" yaml:"total_chunks"`
	StartOffset int    `json:"start_offset" yaml:"start_offset"`
	EndOffset   int    `json:"end_offset" yaml:"end_offset"`
	Filename    string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Section     string `json:"section,omitempty" yaml:"section,omitempty"`
}

// Chunk is a contiguous, trimmed slice of one source document.
type Chunk struct {
	ID        string   `json:"id" yaml:"id"`
	Content   string   `json:"content" yaml:"content"`
	UnitCount int      `json:"unit_count" yaml:"unit_count"`
	Metadata  Metadata `json:"metadata" yaml:"metadata"`

	// RelevanceScore is attached by callers that rank chunks against a query.
	// A chunk nobody scored has a zero score.
	RelevanceScore float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
}

// Config controls the chunk builder. Sizes are in estimated units (see EstimateUnits).
type Config struct {
	MaxUnits           int  `json:"max_units" yaml:"max_units"`
	OverlapUnits       int  `json:"overlap_units" yaml:"overlap_units"`
	MinChunkUnits      int  `json:"min_chunk_units" yaml:"min_chunk_units"`
	PreserveSentences  bool `json:"preserve_sentences" yaml:"preserve_sentences"`
	PreserveParagraphs bool `json:"preserve_paragraphs" yaml:"preserve_paragraphs"`
}

// DefaultConfig returns the builder defaults.
func DefaultConfig() Config {
	return Config{
		MaxUnits:           500,
		OverlapUnits:       50,
		MinChunkUnits:      100,
		PreserveSentences:  true,
		PreserveParagraphs: true,
	}
}

// Validate rejects budgets that would stall the packing loops.
func (c Config) Validate() error {
	if c.MaxUnits <= 0 {
		return fmt.Errorf("%w: max_units must be positive, got %d", ErrInvalidConfig, c.MaxUnits)
	}
	if c.OverlapUnits < 0 {
		return fmt.Errorf("%w: overlap_units must not be negative, got %d", ErrInvalidConfig, c.OverlapUnits)
	}
	if c.OverlapUnits >= c.MaxUnits {
		return fmt.Errorf("%w: overlap_units (%d) must be smaller than max_units (%d)", ErrInvalidConfig, c.OverlapUnits, c.MaxUnits)
	}
	if c.MinChunkUnits < 0 {
		return fmt.Errorf("%w: min_chunk_units must not be negative, got %d", ErrInvalidConfig, c.MinChunkUnits)
	}
	return nil
}

// Document is one input to BuildChunksForMany.
type Document struct {
	Content  string
	Filename string
	SourceID string
}

func chunkID(sourceID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", sourceID, index)
}
