package ocr

import (
	"strings"
	"unicode"
)

const (
	// Replies shorter than this cannot be judged either way.
	degenerateMinChars = 50

	degenerateTopRatio      = 0.8
	degeneratePunctTopRatio = 0.6
	degenerateMaxUnique     = 3
)

// IsDegenerateOutput reports whether a recognition reply has collapsed into
// the repeated-character noise vision models emit on blank or unreadable
// pages, such as pages of dashes or a single rune stuttered thousands of
// times. Short replies are never flagged.
func IsDegenerateOutput(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	runes := []rune(stripped)
	if len(runes) < degenerateMinChars {
		return false
	}

	counts := make(map[rune]int, 16)
	top := 0
	textual := false
	for _, r := range runes {
		counts[r]++
		if counts[r] > top {
			top = counts[r]
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			textual = true
		}
	}

	topRatio := float64(top) / float64(len(runes))
	if len(counts) <= degenerateMaxUnique && topRatio > degenerateTopRatio {
		return true
	}
	if !textual && topRatio > degeneratePunctTopRatio {
		return true
	}
	return false
}
