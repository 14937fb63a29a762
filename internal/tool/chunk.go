// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
)

// MetadataChunkDocument describes the chunk_document tool.
var MetadataChunkDocument = &mcp.Tool{
	Name: "chunk_document",
	Description: "Split a long document into bounded, retrievable passages. " +
		"Each chunk carries its source id, position (byte offsets), index and the section it falls under. " +
		"Sizes are estimated units of 3.5 characters. Optionally merges undersized neighbours, " +
		"adds a short extractive summary per chunk and returns the detected heading outline.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Raw text of the document to chunk",
			},
			"source_id": map[string]interface{}{
				"type":        "string",
				"description": "Identifier used as the chunk id prefix. Defaults to the filename, then \"document\".",
			},
			"filename": map[string]interface{}{
				"type":        "string",
				"description": "Optional original filename recorded in chunk metadata.",
			},
			"max_units": map[string]interface{}{
				"type":        "integer",
				"description": "Upper bound on units per chunk. Defaults to the server configuration.",
			},
			"overlap_units": map[string]interface{}{
				"type":        "integer",
				"description": "Overlap between consecutive windows when paragraphs are not preserved.",
			},
			"min_chunk_units": map[string]interface{}{
				"type":        "integer",
				"description": "Windows smaller than this are dropped; also the merge lower bound.",
			},
			"preserve_paragraphs": map[string]interface{}{
				"type":        "boolean",
				"description": "Pack whole paragraphs (true) or cut fixed-width character windows (false).",
			},
			"merge_small": map[string]interface{}{
				"type":        "boolean",
				"description": "Greedily merge adjacent chunks while the merged size stays within max_units.",
			},
			"summarize": map[string]interface{}{
				"type":        "boolean",
				"description": "Attach a short extractive summary to each chunk.",
			},
			"outline": map[string]interface{}{
				"type":        "boolean",
				"description": "Return the detected title/section/subsection outline of the document.",
			},
		},
	},
}

// InputChunkDocument is the input for the ChunkDocument tool.
type InputChunkDocument struct {
	Content            string `json:"content"`
	SourceID           string `json:"source_id,omitempty"`
	Filename           string `json:"filename,omitempty"`
	MaxUnits           *int   `json:"max_units,omitempty"`
	OverlapUnits       *int   `json:"overlap_units,omitempty"`
	MinChunkUnits      *int   `json:"min_chunk_units,omitempty"`
	PreserveParagraphs *bool  `json:"preserve_paragraphs,omitempty"`
	MergeSmall         bool   `json:"merge_small,omitempty"`
	Summarize          bool   `json:"summarize,omitempty"`
	Outline            bool   `json:"outline,omitempty"`
}

// OutputChunkDocument is the output for the ChunkDocument tool.
type OutputChunkDocument struct {
	Chunks []chunking.Chunk `json:"chunks"`
	// Summaries is parallel to Chunks and only set when requested.
	Summaries []string                    `json:"summaries,omitempty"`
	Outline   []chunking.StructureElement `json:"outline,omitempty"`
	// TotalUnits is the estimated size of the whole document.
	TotalUnits int `json:"total_units"`
}

// ChunkDocument splits the provided document with the server's chunking
// configuration, adjusted by any per-call overrides.
func (t *Tools) ChunkDocument(_ context.Context, _ *mcp.CallToolRequest, input InputChunkDocument) (*mcp.CallToolResult, OutputChunkDocument, error) {
	if input.Content == "" {
		return nil, OutputChunkDocument{}, fmt.Errorf("content is required")
	}

	cfg := t.cfg.Chunking
	if input.MaxUnits != nil {
		cfg.MaxUnits = *input.MaxUnits
	}
	if input.OverlapUnits != nil {
		cfg.OverlapUnits = *input.OverlapUnits
	}
	if input.MinChunkUnits != nil {
		cfg.MinChunkUnits = *input.MinChunkUnits
	}
	if input.PreserveParagraphs != nil {
		cfg.PreserveParagraphs = *input.PreserveParagraphs
	}
	chunker, err := chunking.NewChunker(cfg)
	if err != nil {
		return nil, OutputChunkDocument{}, err
	}

	sourceID := input.SourceID
	if sourceID == "" {
		sourceID = input.Filename
	}
	if sourceID == "" {
		sourceID = "document"
	}

	chunks := chunker.Chunk(input.Content, sourceID, input.Filename)
	if input.MergeSmall {
		chunks = chunking.MergeSmallChunks(chunks, cfg.MinChunkUnits, cfg.MaxUnits)
	}
	if chunks == nil {
		chunks = []chunking.Chunk{}
	}

	out := OutputChunkDocument{
		Chunks:     chunks,
		TotalUnits: chunking.EstimateUnits(input.Content),
	}
	if input.Summarize {
		for _, s := range chunking.Summarize(chunks) {
			out.Summaries = append(out.Summaries, s.Summary)
		}
	}
	if input.Outline {
		for _, el := range chunking.DetectStructure(input.Content) {
			if el.Kind != chunking.KindParagraph {
				out.Outline = append(out.Outline, el)
			}
		}
	}

	t.logger.Debug("chunked document",
		zap.String("source_id", sourceID),
		zap.Int("chunks", len(chunks)),
		zap.Int("units", out.TotalUnits))
	return nil, out, nil
}
