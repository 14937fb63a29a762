// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
	"github.com/gemaraproj/evidence-mcp/internal/evidence"
)

// MarkdownParser splits a Markdown document on headings and chunks each
// section on its own, so no passage straddles two sections. The heading text
// becomes the passage title unless the source sets one.
type MarkdownParser struct {
	chunker *chunking.Chunker
}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser(chunker *chunking.Chunker) *MarkdownParser {
	return &MarkdownParser{chunker: chunker}
}

func (p *MarkdownParser) Name() string {
	return "markdown"
}

// CanHandle returns true for sources that use the "markdown" format hint,
// or whose content begins with a Markdown heading or contains one.
func (p *MarkdownParser) CanHandle(source evidence.EvidenceSource) bool {
	if strings.EqualFold(source.Format, "markdown") || strings.EqualFold(source.Format, "md") {
		return true
	}
	if source.Format != "" {
		return false
	}
	content := strings.TrimSpace(string(source.Content))
	return strings.HasPrefix(content, "# ") || strings.Contains(content, "\n# ") || strings.Contains(content, "\n## ")
}

func (p *MarkdownParser) Parse(ctx context.Context, source evidence.EvidenceSource) ([]evidence.RawEvidence, error) {
	lines := strings.Split(string(source.Content), "\n")
	baseID := sourceID(source)

	var out []evidence.RawEvidence
	var currentHeading string
	var currentLines []string
	section := 0

	flush := func() {
		text := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if text == "" {
			return
		}
		sectionSource := source
		if sectionSource.Title == "" {
			sectionSource.Title = currentHeading
		}
		id := fmt.Sprintf("%s_s%d", baseID, section)
		section++
		for _, c := range p.chunker.Chunk(text, id, source.Filename) {
			out = append(out, evidence.FromChunk(c, sectionSource))
		}
	}

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.HasPrefix(line, "#") {
			flush()
			currentHeading = strings.TrimSpace(strings.TrimLeft(line, "#"))
			currentLines = nil
		} else {
			currentLines = append(currentLines, line)
		}
	}
	flush()

	return out, nil
}
