// SPDX-License-Identifier: Apache-2.0

// Package tool exposes chunking and evidence ranking as MCP tools.
package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gemaraproj/evidence-mcp/internal/chunking"
	"github.com/gemaraproj/evidence-mcp/internal/config"
	"github.com/gemaraproj/evidence-mcp/internal/evidence"
	"github.com/gemaraproj/evidence-mcp/internal/evidence/parsers"
)

// ServerName is reported to MCP clients.
const ServerName = "evidence-mcp"

// Tools holds the configuration shared by every tool call.
type Tools struct {
	cfg    config.Config
	year   int
	logger *zap.Logger
}

// New validates cfg and binds it to the tool handlers. year is the current
// year used for recency scoring unless a call overrides it.
func New(cfg *config.Config, year int, logger *zap.Logger) (*Tools, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{cfg: *cfg, year: year, logger: logger}, nil
}

// NewServer creates an MCP server with all tools registered.
func NewServer(t *Tools, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	mcp.AddTool(server, MetadataChunkDocument, t.ChunkDocument)
	mcp.AddTool(server, MetadataRankEvidence, t.RankEvidence)
	return server
}

// Serve runs server over stdio until ctx is cancelled or the client goes away.
func Serve(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// pipeline builds a Pipeline with all parsers registered.
// Parser order matters: the text parser accepts anything and goes last.
func (t *Tools) pipeline(chunker *chunking.Chunker, scorer *evidence.Scorer) *evidence.Pipeline {
	return evidence.NewPipeline(scorer,
		parsers.NewYAMLParser(),
		parsers.NewMarkdownParser(chunker),
		parsers.NewTextParser(chunker),
	).WithLogger(t.logger)
}
