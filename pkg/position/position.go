package position

import (
	"strings"
	"unicode/utf16"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidPosition is returned when a cursor line points past the end of
// the document. A column past the end of a line is clamped instead, since
// editors routinely report such positions while text is being typed.
var ErrInvalidPosition = errors.Base("position line exceeds document line count")

// OffsetForPosition converts an editor cursor position (zero-based line and
// UTF-16 column, as reported over LSP) into a byte offset into text.
//
// The column is counted in UTF-16 code units while text is UTF-8, so the two
// only line up for ASCII. Walking the runes of the target line and summing
// their UTF-16 widths keeps the mapping exact for multibyte content.
func OffsetForPosition(text string, line, character int) (int, error) {
	offset := 0
	remaining := text

	for ln := 0; remaining != ""; ln++ {
		cur := remaining
		if idx := strings.IndexByte(remaining, '\n'); idx >= 0 {
			cur = remaining[:idx+1]
			remaining = remaining[idx+1:]
		} else {
			remaining = ""
		}

		if ln != line {
			offset += len(cur)
			continue
		}

		units := 0
		for i, r := range cur {
			if units >= character {
				return offset + i, nil
			}
			units += len(utf16.Encode([]rune{r}))
		}

		// Column past the end of the line: clamp to the line's end.
		return offset + len(cur), nil
	}

	return 0, errors.Errorf("mapping line %d: %w", line, ErrInvalidPosition)
}

// LineCount reports the number of lines in text, counting a trailing
// newline as terminating the final line rather than opening a new one.
func LineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
