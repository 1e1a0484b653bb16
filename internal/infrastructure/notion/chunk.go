package notion

import (
	"strings"
	"unicode/utf8"
)

// blockChunkLimit is the practical rich-text payload size per block.
const blockChunkLimit = 1800

// ChunkText splits text into block-sized chunks: first on line boundaries,
// merging lines while they fit, then hard-splitting any single line still
// over the limit. Blank lines are dropped.
func ChunkText(text string, maxLen int) []string {
	if strings.TrimSpace(text) == "" {
		return []string{""}
	}

	var paras []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paras = append(paras, line)
		}
	}

	var chunks []string
	cur := ""

	for _, p := range paras {
		if utf8.RuneCountInString(p) > maxLen {
			if cur != "" {
				chunks = append(chunks, cur)
				cur = ""
			}
			runes := []rune(p)
			for start := 0; start < len(runes); start += maxLen {
				end := min(start+maxLen, len(runes))
				chunks = append(chunks, string(runes[start:end]))
			}
			continue
		}

		if utf8.RuneCountInString(cur)+utf8.RuneCountInString(p)+1 <= maxLen {
			cur = strings.TrimSpace(cur + "\n" + p)
		} else {
			if cur != "" {
				chunks = append(chunks, cur)
			}
			cur = p
		}
	}

	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}
