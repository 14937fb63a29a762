// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// writeOutput renders v as YAML, or as JSON when format is "json".
func writeOutput(w io.Writer, v any, format string) error {
	var opts []yaml.EncodeOption
	switch format {
	case "yaml", "":
	case "json":
		opts = append(opts, yaml.JSON())
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
	data, err := yaml.MarshalWithOptions(v, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// formatHint maps a file extension onto a parser format hint. Unknown
// extensions are left to content detection.
func formatHint(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".txt":
		return "text"
	}
	return ""
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
