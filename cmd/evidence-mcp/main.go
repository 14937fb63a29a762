// SPDX-License-Identifier: Apache-2.0

// Command evidence-mcp chunks documents and ranks candidate evidence passages,
// either as an MCP server over stdio or directly from the command line.
//
// Usage:
//
//	evidence-mcp serve                              # MCP server on stdio
//	evidence-mcp chunk notes.txt                    # split files into chunks
//	evidence-mcp rank --topic cálculo notes.txt     # score, rank and gate passages
package main

import "os"

// Set by the release build.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
