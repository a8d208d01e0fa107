package match

import (
	"regexp"
	"strings"
)

var reTitleNoise = regexp.MustCompile(`[^a-z0-9_\p{Han}]`)

// NormalizeTitle lowercases and strips punctuation and whitespace, keeping
// letters, digits, and CJK.
func NormalizeTitle(title string) string {
	return reTitleNoise.ReplaceAllString(strings.ToLower(title), "")
}

// Titles reports whether a claimed title and a document title refer to the
// same work. The comparison ladder goes from equality through guarded
// containment, prefix similarity, and fixed-prefix checks tuned for noisy
// OCR output. Titles under 10 normalized characters never match.
func Titles(webTitle, docTitle string) bool {
	if webTitle == "" || docTitle == "" {
		return false
	}

	web := NormalizeTitle(webTitle)
	doc := NormalizeTitle(docTitle)
	if web == "" || doc == "" {
		return false
	}

	webR, docR := []rune(web), []rune(doc)
	if len(webR) < 10 || len(docR) < 10 {
		return false
	}

	if web == doc {
		return true
	}

	if strings.Contains(web, doc) || strings.Contains(doc, web) {
		shorter, longer := webR, docR
		if len(docR) < len(webR) {
			shorter, longer = docR, webR
		}
		ratio := float64(len(shorter)) / float64(len(longer))
		if len(shorter) >= 30 && ratio >= 0.6 {
			return true
		}
	}

	if similarity(web, doc) > 0.75 && len(webR) >= 20 && len(docR) >= 20 {
		return true
	}

	// Same 70% prefix on both sides for long titles.
	if len(webR) >= 30 && len(docR) >= 30 {
		webPrefix := webR[:len(webR)*7/10]
		docPrefix := docR[:len(docR)*7/10]
		if string(webPrefix) == string(docPrefix) && len(webPrefix) >= 30 {
			return true
		}
	}

	// OCR tends to garble tails; a near-identical 50-char head is enough.
	if len(webR) >= 50 && len(docR) >= 50 {
		if similarity(string(webR[:50]), string(docR[:50])) > 0.8 {
			return true
		}
	}

	return false
}
