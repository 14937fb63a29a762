// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"strings"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
	"github.com/gemaraproj/evidence-mcp/internal/evidence"
)

// TextParser chunks free-form prose. It accepts any source and is meant to be
// registered last as the fallback.
type TextParser struct {
	chunker *chunking.Chunker
}

// NewTextParser creates a TextParser that splits documents with chunker.
func NewTextParser(chunker *chunking.Chunker) *TextParser {
	return &TextParser{chunker: chunker}
}

func (p *TextParser) Name() string {
	return "text"
}

func (p *TextParser) CanHandle(_ evidence.EvidenceSource) bool {
	return true
}

func (p *TextParser) Parse(ctx context.Context, source evidence.EvidenceSource) ([]evidence.RawEvidence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chunks := p.chunker.Chunk(string(source.Content), sourceID(source), source.Filename)
	out := make([]evidence.RawEvidence, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, evidence.FromChunk(c, source))
	}
	return out, nil
}

// sourceID names the chunks of a source. Sources without an ID fall back to
// their display label, and then to "source".
func sourceID(source evidence.EvidenceSource) string {
	if id := strings.TrimSpace(source.ID); id != "" {
		return id
	}
	if label := strings.TrimSpace(source.DisplayLabel()); label != "" {
		return label
	}
	return "source"
}
