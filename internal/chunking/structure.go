// SPDX-License-Identifier: Apache-2.0

package chunking

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ElementKind classifies a line of a document.
type ElementKind string

const (
	KindTitle      ElementKind = "title"
	KindSection    ElementKind = "section"
	KindSubsection ElementKind = "subsection"
	KindParagraph  ElementKind = "paragraph"
)

// StructureElement is one classified, trimmed, non-empty line.
type StructureElement struct {
	Kind    ElementKind `json:"kind" yaml:"kind"`
	Content string      `json:"content" yaml:"content"`
	Level   int         `json:"level" yaml:"level"`
}

// maxHeadingChars bounds the length of lines that may be read as headings.
const maxHeadingChars = 100

var (
	markdownHeading    = regexp.MustCompile(`^(#{1,6})\s`)
	numberedSection    = regexp.MustCompile(`^\d+\.?\s+[A-Z]`)
	numberedSubsection = regexp.MustCompile(`^\d+\.\d+\.?\s+`)
)

// DetectStructure classifies every non-empty line of text. The result is
// advisory: anything that does not look like a heading is a paragraph.
func DetectStructure(text string) []StructureElement {
	var out []StructureElement
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, classifyLine(line))
	}
	return out
}

func classifyLine(line string) StructureElement {
	if m := markdownHeading.FindStringSubmatch(line); m != nil {
		level := len(m[1])
		kind := KindSection
		if level > 2 {
			kind = KindSubsection
		}
		return StructureElement{Kind: kind, Content: line, Level: level}
	}
	if isUpperHeading(line) {
		return StructureElement{Kind: KindTitle, Content: line, Level: 1}
	}
	if numberedSection.MatchString(line) {
		return StructureElement{Kind: KindSection, Content: line, Level: 2}
	}
	if numberedSubsection.MatchString(line) {
		return StructureElement{Kind: KindSubsection, Content: line, Level: 3}
	}
	return StructureElement{Kind: KindParagraph, Content: line, Level: 0}
}

// isUpperHeading reports a short line with at least one letter and no lowercase letters.
func isUpperHeading(line string) bool {
	if utf8.RuneCountInString(line) >= maxHeadingChars {
		return false
	}
	hasUpper := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// isSectionLabel reports whether a paragraph should become the current
// section label while packing chunks.
func isSectionLabel(paragraph string) bool {
	if strings.Contains(paragraph, "\n") || utf8.RuneCountInString(paragraph) >= maxHeadingChars {
		return false
	}
	return isUpperHeading(paragraph) || numberedSection.MatchString(paragraph)
}
