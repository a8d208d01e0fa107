package match

import (
	"regexp"
	"strings"
)

var reNonAlpha = regexp.MustCompile(`[^a-z\s]`)

func normalizeName(s string) string {
	return strings.TrimSpace(reNonAlpha.ReplaceAllString(strings.ToLower(s), ""))
}

// either reports containment in either direction, equality included. The
// matcher is deliberately permissive about near-miss spellings: "jichen"
// matches "jichena" because document names are frequently OCR-mangled.
func either(a, b string) bool {
	return a == b || strings.Contains(b, a) || strings.Contains(a, b)
}

// Authors reports whether a claimed author name and a document author name
// refer to the same person. CJK claimed names are transliterated to pinyin
// first; both paths then run an ordered ladder from exact equality down to
// surname/given comparisons that tolerate swapped name order.
func Authors(webAuthor, docAuthor string) bool {
	if webAuthor == "" || docAuthor == "" {
		return false
	}

	if containsCJK(webAuthor) {
		if pinyinMatch(webAuthor, docAuthor) {
			return true
		}
	}

	web := normalizeName(webAuthor)
	doc := normalizeName(docAuthor)
	if web == "" || doc == "" {
		return false
	}

	webWords := strings.Fields(web)
	docWords := strings.Fields(doc)

	if len(webWords) < 2 || len(docWords) < 2 {
		return web == doc
	}

	if web == doc {
		return true
	}

	if allWordsIn(webWords, docWords) && allWordsIn(docWords, webWords) {
		return true
	}

	webFirst, webLast := webWords[0], webWords[len(webWords)-1]
	docFirst, docLast := docWords[0], docWords[len(docWords)-1]

	sameOrder := either(webFirst, docFirst) && either(webLast, docLast)
	reversedOrder := either(webFirst, docLast) && either(webLast, docFirst)
	if sameOrder || reversedOrder {
		return true
	}

	return strings.Contains(web, doc) || strings.Contains(doc, web)
}

// pinyinMatch runs the CJK ladder: transliterate the claimed name, then
// compare word sets and surname/given splits against the document name in
// both orders.
func pinyinMatch(webAuthor, docAuthor string) bool {
	web := normalizeName(ToPinyin(webAuthor))
	doc := normalizeName(docAuthor)
	if web == "" || doc == "" {
		return false
	}

	webWords := strings.Fields(web)
	docWords := strings.Fields(doc)
	if len(webWords) < 2 {
		return false
	}

	if web == doc {
		return true
	}

	if allWordsIn(webWords, docWords) && allWordsIn(docWords, webWords) {
		if len(webWords) == len(docWords) {
			return true
		}
		if len(docWords) >= 2 && countWordsIn(webWords, docWords) >= 2 {
			return true
		}
	}

	if len(docWords) < 2 {
		return false
	}

	// Claimed side: surname first after transliteration.
	webSurname := webWords[0]
	webGiven := strings.Join(webWords[1:], "")

	// Document side: try surname-first and surname-last readings.
	docSurnameFirst := docWords[0]
	docGivenFirst := strings.Join(docWords[1:], "")
	docSurnameLast := docWords[len(docWords)-1]
	docGivenLast := strings.Join(docWords[:len(docWords)-1], "")

	if either(webSurname, docSurnameFirst) && either(webGiven, docGivenFirst) {
		return true
	}
	if either(webSurname, docSurnameLast) && either(webGiven, docGivenLast) {
		return true
	}

	// Fully swapped reading: claimed surname against the document given name.
	if either(webSurname, docGivenLast) && either(webGiven, docSurnameLast) {
		return true
	}

	return false
}

func allWordsIn(words, in []string) bool {
	for _, w := range words {
		if !wordIn(w, in) {
			return false
		}
	}
	return true
}

func countWordsIn(words, in []string) int {
	n := 0
	for _, w := range words {
		if wordIn(w, in) {
			n++
		}
	}
	return n
}

func wordIn(w string, in []string) bool {
	for _, v := range in {
		if v == w {
			return true
		}
	}
	return false
}
