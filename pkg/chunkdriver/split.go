// Package chunkdriver implements the chunked driver: splitting a long
// document into overlapping macro-chunks, running the per-chunk extraction
// pipeline over them with bounded concurrency, and merging the per-chunk
// results back into one document-level result set with spans shifted back
// into the original document's coordinate space.
package chunkdriver

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/segmenter"
)

// Chunk is one macro-chunk of a document: a contiguous span of the original
// text (plus leading overlap carried from the previous chunk) assigned its
// own synthetic document ID so per-chunk extraction can run as if it were a
// standalone document.
type Chunk struct {
	DocID      string // synthetic ID, e.g. "<docID>#0"
	Index      int
	Text       string
	// OriginStart is the character offset into the original document text
	// at which Text begins. Spans produced against Text are shifted by
	// this amount when merging back into document coordinates.
	OriginStart int
	// OverlapChars is how many leading characters of Text were copied
	// from the tail of the previous chunk, rather than being new content.
	// Mentions/relations anchored entirely within the overlap region are
	// dropped by the merge step in favor of the copy kept from the
	// previous chunk, to avoid double-counting.
	OverlapChars int
}

// Split breaks text into chunks of about cfg.ChunkSizeWords words, breaking
// on paragraph boundaries. A single paragraph that exceeds the budget on its
// own is packed into fragments of whole sentences; no cut is made inside a
// sentence, so a sentence longer than the budget stays in one chunk.
// Consecutive paragraph-packed chunks share up to cfg.OverlapChars
// characters of leading context copied from the text just before them;
// sentence fragments carry no overlap. Documents at or under the chunk
// budget are returned as a single chunk with no splitting overhead.
func Split(docID, text string, cfg config.Config) []Chunk {
	if wordCount(text) <= cfg.ChunkSizeWords {
		return []Chunk{{DocID: syntheticDocID(docID, 0), Index: 0, Text: text, OriginStart: 0}}
	}

	paragraphs := splitParagraphs(text)
	var chunks []Chunk
	var cur strings.Builder
	curWords := 0
	curStart := 0
	overlapChars := 0

	flush := func(end int) {
		if cur.Len() == 0 {
			return
		}
		body := cur.String()
		chunks = append(chunks, Chunk{
			Index:        len(chunks),
			Text:         body,
			OriginStart:  curStart,
			OverlapChars: overlapChars,
		})
		overlapChars = min(cfg.OverlapChars, len(body))
		cur.Reset()
		curWords = 0
	}

	offset := 0
	for _, para := range paragraphs {
		prevEnd := offset
		paraStart := strings.Index(text[offset:], para)
		if paraStart >= 0 {
			paraStart += offset
		} else {
			paraStart = offset
		}
		offset = paraStart + len(para)

		pw := wordCount(para)
		if pw > cfg.ChunkSizeWords {
			flush(paraStart)
			fragStart := paraStart
			for _, sent := range splitBySentenceBudget(para, cfg.ChunkSizeWords) {
				start := fragStart
				if j := strings.Index(text[fragStart:], sent); j >= 0 {
					start = fragStart + j
					fragStart = start + len(sent)
				}
				chunks = append(chunks, Chunk{Index: len(chunks), Text: sent, OriginStart: start})
			}
			overlapChars = 0
			continue
		}

		if curWords+pw > cfg.ChunkSizeWords && cur.Len() > 0 {
			flush(paraStart)
			curStart = paraStart - overlapChars
			if curStart < 0 {
				curStart = 0
			}
			if overlapChars > 0 {
				cur.WriteString(tail(text, paraStart, overlapChars))
			}
		} else if cur.Len() > 0 {
			cur.WriteString(text[prevEnd:paraStart])
		}

		if cur.Len() == 0 {
			curStart = paraStart
		}
		cur.WriteString(para)
		curWords += pw
	}
	flush(len(text))

	for i := range chunks {
		chunks[i].DocID = syntheticDocID(docID, i)
	}
	return chunks
}

func syntheticDocID(docID string, i int) string {
	return docID + "#" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitBySentenceBudget breaks an over-budget paragraph at sentence
// boundaries using the sentence splitter, packing as many whole sentences
// as fit under maxWords per fragment.
func splitBySentenceBudget(para string, maxWords int) []string {
	sentences := segmenter.Segment(para)
	var fragments []string
	var cur strings.Builder
	curWords := 0
	for _, s := range sentences {
		sw := wordCount(s.Text)
		if curWords+sw > maxWords && cur.Len() > 0 {
			fragments = append(fragments, strings.TrimSpace(cur.String()))
			cur.Reset()
			curWords = 0
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(s.Text)
		curWords += sw
	}
	if cur.Len() > 0 {
		fragments = append(fragments, strings.TrimSpace(cur.String()))
	}
	if len(fragments) == 0 {
		return []string{para}
	}
	return fragments
}

// tail returns up to n characters immediately preceding position pos in s.
func tail(s string, pos, n int) string {
	start := pos - n
	if start < 0 {
		start = 0
	}
	if pos > len(s) {
		pos = len(s)
	}
	return s[start:pos]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
