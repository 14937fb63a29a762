// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/gemaraproj/evidence-mcp/internal/evidence"
)

// passageFile is the mapping form of a passage document.
type passageFile struct {
	Passages []evidence.RawEvidence `yaml:"passages"`
}

// YAMLParser reads pre-extracted passages, such as web-search snippets or
// generated text, from YAML or JSON. A document is either a list of passages
// or a mapping with a "passages" list. Multi-document YAML is accepted.
//
// Passages inherit source kind, URL, title and label from the source when
// they do not set their own.
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

func (p *YAMLParser) Name() string {
	return "yaml"
}

func (p *YAMLParser) CanHandle(source evidence.EvidenceSource) bool {
	switch strings.ToLower(source.Format) {
	case "yaml", "yml", "json":
		return true
	case "":
	default:
		return false
	}
	content := strings.TrimSpace(string(source.Content))
	return strings.HasPrefix(content, "passages:") ||
		strings.HasPrefix(content, "- content:") ||
		strings.HasPrefix(content, "{") ||
		strings.HasPrefix(content, "[")
}

func (p *YAMLParser) Parse(ctx context.Context, source evidence.EvidenceSource) ([]evidence.RawEvidence, error) {
	var out []evidence.RawEvidence
	for i, doc := range splitDocuments(source.Content) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		passages, err := decodePassages(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		for _, raw := range passages {
			if strings.TrimSpace(raw.Content) == "" {
				continue
			}
			out = append(out, inherit(raw, source))
		}
	}
	return out, nil
}

func splitDocuments(content []byte) [][]byte {
	var docs [][]byte
	for _, doc := range bytes.Split(content, []byte("\n---")) {
		doc = bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(doc), []byte("---")))
		if len(doc) > 0 {
			docs = append(docs, doc)
		}
	}
	return docs
}

func decodePassages(doc []byte) ([]evidence.RawEvidence, error) {
	if bytes.HasPrefix(doc, []byte("-")) || bytes.HasPrefix(doc, []byte("[")) {
		var list []evidence.RawEvidence
		if err := yaml.Unmarshal(doc, &list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal passage list: %w", err)
		}
		return list, nil
	}
	var file passageFile
	if err := yaml.Unmarshal(doc, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal passages: %w", err)
	}
	return file.Passages, nil
}

func inherit(raw evidence.RawEvidence, source evidence.EvidenceSource) evidence.RawEvidence {
	if raw.SourceLabel == "" {
		raw.SourceLabel = source.DisplayLabel()
	}
	if raw.SourceKind == "" {
		raw.SourceKind = string(source.Kind)
	}
	if raw.URL == "" {
		raw.URL = source.URL
	}
	if raw.Title == "" {
		raw.Title = source.Title
	}
	if raw.Metadata.Filename == "" {
		raw.Metadata.Filename = source.Filename
	}
	return raw
}
