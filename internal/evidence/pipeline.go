// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedSource is returned when no registered parser accepts a source.
var ErrUnsupportedSource = errors.New("unsupported source format")

type Pipeline struct {
	parsers []EvidenceParser
	scorer  *Scorer
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline that scores with scorer. Parsers are tried
// in registration order, so more specific parsers go first.
func NewPipeline(scorer *Scorer, parsers ...EvidenceParser) *Pipeline {
	return &Pipeline{
		parsers: parsers,
		scorer:  scorer,
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the logger used for per-source diagnostics.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Request is one ranking run: every source is scored against the same
// topic/query pair.
type Request struct {
	Topic   string
	Query   string
	Sources []EvidenceSource
}

// RunResult is the output of a successful pipeline run.
type RunResult struct {
	// Ranked is the deduplicated, reranked and capped evidence list.
	Ranked      []Evidence
	Approved    []Evidence
	NeedsReview []Evidence
	// ParsersUsed holds the parser name per source, in request order.
	ParsersUsed  []string
	PassageCount int
}

// Run parses and scores every source concurrently, then combines them in
// request order so the outcome does not depend on scheduling.
func (p *Pipeline) Run(ctx context.Context, req Request) (RunResult, error) {
	scored := make([][]Evidence, len(req.Sources))
	used := make([]string, len(req.Sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range req.Sources {
		g.Go(func() error {
			parser, err := p.selectParser(src)
			if err != nil {
				return err
			}
			raws, err := parser.Parse(gctx, src)
			if err != nil {
				return fmt.Errorf("parser %q failed on source %q: %w", parser.Name(), src.DisplayLabel(), err)
			}
			scored[i] = p.scorer.ScoreAll(raws, req.Topic, req.Query)
			used[i] = parser.Name()
			p.logger.Debug("scored source",
				zap.String("source", src.DisplayLabel()),
				zap.String("parser", parser.Name()),
				zap.Int("passages", len(scored[i])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunResult{}, err
	}

	count := 0
	for _, s := range scored {
		count += len(s)
	}
	cfg := p.scorer.Config()
	ranked := CombineSources(cfg, scored...)
	approved, review := GateForReview(ranked, cfg)
	p.logger.Info("ranked evidence",
		zap.String("topic", req.Topic),
		zap.Int("passages", count),
		zap.Int("ranked", len(ranked)),
		zap.Int("approved", len(approved)),
		zap.Int("needs_review", len(review)))

	return RunResult{
		Ranked:       ranked,
		Approved:     approved,
		NeedsReview:  review,
		ParsersUsed:  used,
		PassageCount: count,
	}, nil
}

// Parse extracts unscored passages from a single source.
func (p *Pipeline) Parse(ctx context.Context, source EvidenceSource) ([]RawEvidence, string, error) {
	parser, err := p.selectParser(source)
	if err != nil {
		return nil, "", err
	}
	raws, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, parser.Name(), fmt.Errorf("parser %q failed: %w", parser.Name(), err)
	}
	return raws, parser.Name(), nil
}

// selectParser returns the first registered parser that can handle the given source.
func (p *Pipeline) selectParser(source EvidenceSource) (EvidenceParser, error) {
	for _, parser := range p.parsers {
		if parser.CanHandle(source) {
			return parser, nil
		}
	}
	return nil, fmt.Errorf("%w: no parser found for source %q (format hint: %q)", ErrUnsupportedSource, source.DisplayLabel(), source.Format)
}

// RegisteredParsers returns the names of all currently registered parsers.
func (p *Pipeline) RegisteredParsers() []string {
	names := make([]string, len(p.parsers))
	for i, parser := range p.parsers {
		names[i] = parser.Name()
	}
	return names
}
