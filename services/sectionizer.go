package services

import (
	"regexp"
	"strings"
)

// DefaultChunkSize bounds the text handed to one summarization call.
const DefaultChunkSize = 500

// SectionizerService splits extracted document text into paragraph-level
// sections and sections into model-sized chunks. Both operations are pure.
type SectionizerService struct {
	paragraphRegex *regexp.Regexp
	sentenceBreak  *regexp.Regexp
	chunkSize      int
}

func NewSectionizerService(chunkSize int) *SectionizerService {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &SectionizerService{
		paragraphRegex: regexp.MustCompile(`\n\s*\n+`),
		sentenceBreak:  regexp.MustCompile(`([.!?।])\s*\n`),
		chunkSize:      chunkSize,
	}
}

// SplitSections breaks text on blank lines. Single newlines that follow
// sentence punctuation are promoted to section breaks first, which
// recovers structure from extractors that emit one line per paragraph.
func (s *SectionizerService) SplitSections(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	text = s.sentenceBreak.ReplaceAllString(text, "$1\n\n")

	parts := s.paragraphRegex.Split(text, -1)
	sections := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sections = append(sections, part)
	}

	return sections
}

// ChunkText cuts a section into contiguous rune-boundary chunks of at
// most the configured size. Concatenating the chunks reproduces the
// input exactly.
func (s *SectionizerService) ChunkText(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{}
	}

	chunks := make([]string, 0, (len(runes)+s.chunkSize-1)/s.chunkSize)
	for start := 0; start < len(runes); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
