// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemaraproj/evidence-mcp/internal/tool"
)

type rankOptions struct {
	output    string
	topic     string
	query     string
	kind      string
	threshold float64
	limit     int
}

func newRankCmd(a *app) *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank --topic TOPIC FILE...",
		Short: "Score, deduplicate and rank evidence from files",
		Long: "Score every passage of the given files against a topic and query and split the ranked result\n" +
			"into approved passages and passages that need review. Files are combined in argument order:\n" +
			"when two files carry the same passage, the earlier file wins.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.topic == "" {
				return fmt.Errorf("--topic is required")
			}
			tools, err := tool.New(a.cfg, a.year, a.logger)
			if err != nil {
				return err
			}
			input := tool.InputRankEvidence{Topic: opts.topic, Query: opts.query}
			if cmd.Flags().Changed("threshold") {
				input.MinConfidenceThreshold = &opts.threshold
			}
			if cmd.Flags().Changed("limit") {
				input.MaxEvidencePerTopic = &opts.limit
			}
			for _, path := range args {
				content, err := readInput(path)
				if err != nil {
					return err
				}
				src := tool.SourceInput{Content: content, Format: formatHint(path), Kind: opts.kind}
				if path != "-" {
					src.Filename = path
				}
				input.Sources = append(input.Sources, src)
			}
			_, res, err := tools.RankEvidence(cmd.Context(), nil, input)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), res, opts.output)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&opts.topic, "topic", "t", "", "topic the passages must support")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "query that produced the passages")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "source kind for every file (default user-document for prose)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "override the approval threshold")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "override the maximum number of ranked passages")
	return cmd
}
