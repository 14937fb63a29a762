// SPDX-License-Identifier: Apache-2.0

package chunking

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunker builds chunks with a validated Config.
type Chunker struct {
	cfg Config
}

// NewChunker validates cfg and returns a Chunker bound to it.
func NewChunker(cfg Config) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg}, nil
}

// Config returns the configuration the Chunker was built with.
func (c *Chunker) Config() Config {
	return c.cfg
}

// BuildChunks validates cfg and splits text into chunks.
func BuildChunks(text, sourceID string, cfg Config, filename string) ([]Chunk, error) {
	c, err := NewChunker(cfg)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text, sourceID, filename), nil
}

// BuildChunksForMany chunks each document in order and concatenates the
// results. Chunk ids and indices stay scoped to their own document.
func BuildChunksForMany(docs []Document, cfg Config) ([]Chunk, error) {
	c, err := NewChunker(cfg)
	if err != nil {
		return nil, err
	}
	return c.ChunkMany(docs), nil
}

// ChunkMany is BuildChunksForMany for an already validated Chunker.
func (c *Chunker) ChunkMany(docs []Document) []Chunk {
	var out []Chunk
	for _, d := range docs {
		out = append(out, c.Chunk(d.Content, d.SourceID, d.Filename)...)
	}
	return out
}

// Chunk splits text into chunks of at most MaxUnits estimated units.
//
// Text that already fits is returned as a single chunk. Otherwise paragraphs
// are packed greedily (oversized paragraphs fall back to sentence packing),
// or, with PreserveParagraphs unset, fixed-width character windows with
// overlap are cut. TotalChunks is filled in once all chunks exist.
func (c *Chunker) Chunk(text, sourceID, filename string) []Chunk {
	p := &packer{
		text:     text,
		sourceID: sourceID,
		filename: filename,
		maxUnits: c.cfg.MaxUnits,
	}

	switch {
	case EstimateUnits(text) <= c.cfg.MaxUnits:
		whole := trimSpan(text, 0, len(text))
		if whole.end > whole.start {
			p.emit(text[whole.start:whole.end], whole)
		}
	case c.cfg.PreserveParagraphs:
		p.packParagraphs()
	default:
		p.slideWindows(c.cfg)
	}

	for i := range p.chunks {
		p.chunks[i].Metadata.TotalChunks = len(p.chunks)
	}
	return p.chunks
}

// packer holds the accumulator state of one chunking run.
type packer struct {
	text     string
	sourceID string
	filename string
	maxUnits int

	chunks  []Chunk
	section string

	// accumulated paragraphs, joined by a blank line on flush
	parts    []string
	accRunes int
	accSpan  span
}

func (p *packer) emit(content string, s span) {
	idx := len(p.chunks)
	p.chunks = append(p.chunks, Chunk{
		ID:        chunkID(p.sourceID, idx),
		Content:   content,
		UnitCount: EstimateUnits(content),
		Metadata: Metadata{
			SourceID:    p.sourceID,
			ChunkIndex:  idx,
			StartOffset: s.start,
			EndOffset:   s.end,
			Filename:    p.filename,
			Section:     p.section,
		},
	})
}

func (p *packer) flush() {
	if len(p.parts) == 0 {
		return
	}
	p.emit(strings.Join(p.parts, "\n\n"), p.accSpan)
	p.parts = nil
	p.accRunes = 0
}

// fits reports whether a paragraph of n runes can join the accumulator.
func (p *packer) fits(n int) bool {
	if len(p.parts) == 0 {
		return unitsForRunes(n) <= p.maxUnits
	}
	return unitsForRunes(p.accRunes+2+n) <= p.maxUnits
}

func (p *packer) add(para string, s span, n int) {
	if len(p.parts) == 0 {
		p.accSpan = s
		p.accRunes = n
	} else {
		p.accSpan.end = s.end
		p.accRunes += 2 + n
	}
	p.parts = append(p.parts, para)
}

func (p *packer) packParagraphs() {
	for _, ps := range paragraphSpans(p.text) {
		para := p.text[ps.start:ps.end]
		if isSectionLabel(para) {
			p.flush()
			p.section = para
		}

		n := utf8.RuneCountInString(para)
		if p.fits(n) {
			p.add(para, ps, n)
			continue
		}
		p.flush()
		if unitsForRunes(n) > p.maxUnits {
			p.packSentences(ps)
			continue
		}
		p.add(para, ps, n)
	}
	p.flush()
}

// packSentences packs the sentences of one oversized paragraph into
// sub-chunks. A single sentence over budget is emitted on its own.
func (p *packer) packSentences(ps span) {
	var group span
	open := false
	for _, s := range sentenceSpans(p.text, ps.start, ps.end) {
		if !open {
			group, open = s, true
			continue
		}
		if EstimateUnits(p.text[group.start:s.end]) <= p.maxUnits {
			group.end = s.end
			continue
		}
		p.emit(p.text[group.start:group.end], group)
		group = s
	}
	if open {
		p.emit(p.text[group.start:group.end], group)
	}
}

// slideWindows cuts fixed-width character windows with overlap.
func (p *packer) slideWindows(cfg Config) {
	runes := []rune(p.text)
	offsets := runeOffsets(p.text)
	total := len(runes)
	width := unitsToChars(cfg.MaxUnits)
	overlap := unitsToChars(cfg.OverlapUnits)

	for start := 0; start < total; {
		end := min(start+width, total)
		if cfg.PreserveSentences && end < total {
			end = sentenceAwareEnd(runes, start, end, width)
		}

		s := trimSpan(p.text, offsets[start], offsets[end])
		if s.end > s.start {
			content := p.text[s.start:s.end]
			if EstimateUnits(content) >= cfg.MinChunkUnits {
				p.emit(content, s)
			}
		}

		if end >= total {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
}

// sentenceAwareEnd pulls a window end back to the last period when it lies
// past 70% of the window, or else to the last whitespace past 80%.
func sentenceAwareEnd(runes []rune, start, end, width int) int {
	lastPeriod, lastSpace := -1, -1
	for i := end - 1; i >= start; i-- {
		if lastPeriod < 0 && runes[i] == '.' {
			lastPeriod = i - start
		}
		if lastSpace < 0 && unicode.IsSpace(runes[i]) {
			lastSpace = i - start
		}
		if lastPeriod >= 0 && lastSpace >= 0 {
			break
		}
	}
	switch {
	case lastPeriod >= 0 && lastPeriod*10 > width*7:
		return start + lastPeriod + 1
	case lastSpace >= 0 && lastSpace*10 > width*8:
		return start + lastSpace
	}
	return end
}

// runeOffsets maps rune index to byte offset; the final entry is len(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
