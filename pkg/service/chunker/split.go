package chunker

import "strings"

// Defaults for free-text splitting.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// SplitText splits text into chunks of at most size runes with roughly
// overlap runes carried between neighbors. Breaks prefer paragraph
// boundaries, then line boundaries, then spaces.
func SplitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = splitPoint(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// splitPoint finds the best break position in (start, limit], preferring
// the latest separator in the second half of the window.
func splitPoint(runes []rune, start, limit int) int {
	minBreak := start + (limit-start)/2

	for i := limit - 1; i > minBreak; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i > minBreak; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i > minBreak; i-- {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return limit
}
