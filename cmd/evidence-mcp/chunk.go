// SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gemaraproj/evidence-mcp/internal/tool"
)

type chunkOptions struct {
	output     string
	maxUnits   int
	mergeSmall bool
	summarize  bool
	outline    bool
}

type chunkedFile struct {
	File                     string `json:"file" yaml:"file"`
	tool.OutputChunkDocument `yaml:",inline"`
}

func newChunkCmd(a *app) *cobra.Command {
	opts := &chunkOptions{}
	cmd := &cobra.Command{
		Use:   "chunk FILE...",
		Short: "Split documents into chunks",
		Long:  "Split each file (or stdin for \"-\") into bounded chunks using the configured chunking settings.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := tool.New(a.cfg, a.year, a.logger)
			if err != nil {
				return err
			}
			var out []chunkedFile
			for _, path := range args {
				content, err := readInput(path)
				if err != nil {
					return err
				}
				input := tool.InputChunkDocument{
					Content:    content,
					SourceID:   filepath.Base(path),
					MergeSmall: opts.mergeSmall,
					Summarize:  opts.summarize,
					Outline:    opts.outline,
				}
				if path != "-" {
					input.Filename = path
				}
				if cmd.Flags().Changed("max-units") {
					input.MaxUnits = &opts.maxUnits
				}
				_, res, err := tools.ChunkDocument(cmd.Context(), nil, input)
				if err != nil {
					return err
				}
				out = append(out, chunkedFile{File: path, OutputChunkDocument: res})
			}
			return writeOutput(cmd.OutOrStdout(), out, opts.output)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or json")
	cmd.Flags().IntVar(&opts.maxUnits, "max-units", 0, "override the configured chunk budget")
	cmd.Flags().BoolVar(&opts.mergeSmall, "merge-small", false, "merge adjacent chunks that fit together")
	cmd.Flags().BoolVar(&opts.summarize, "summarize", false, "add a short summary per chunk")
	cmd.Flags().BoolVar(&opts.outline, "outline", false, "include the detected heading outline")
	return cmd
}
