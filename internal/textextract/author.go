package textextract

import (
	"regexp"
	"sort"
	"strings"
)

// Publisher, brand, and boilerplate strings that disqualify a line or a
// captured name from being an author.
var invalidAuthorNames = []string{
	"compaq", "hp", "dell", "lenovo", "acer", "microsoft", "apple", "samsung",
	"huawei", "xiaomi", "computer", "pc", "desktop", "laptop", "server", "system",
	"device", "machine", "fields", "admin", "user", "asus", "administrator", "test",
	"open access", "international journal", "expert systems", "direct journals",
	"elsevier", "science direct", "creative commons", "the author", "this article",
	"attribution", "noderivatives", "research", "volume", "vol.", "int. j.",
	"introduction", "abstract", "keywords", "received", "accepted", "published",
	"nanoscale", "royal society", "chemistry", "view article", "view journal",
	"check for updates", "cite this", "doi:", "rsc.li", "dear professor", "dear dr",
	"manuscript number", "engineering structures", "engineering failure",
	"failure analysis", "analysis", "engineering",
	"journal", "article", "paper", "publication", "publisher", "editorial",
	"editor", "reviewer", "correspondence", "corresponding author", "author",
	"authors", "affiliation", "department", "university", "institute", "college",
	"school", "laboratory", "lab", "center", "centre", "organization", "company",
}

// Name shapes, most specific first. Index 4 captures "Lastname, Firstname"
// in two groups and is reassembled given-name first.
var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s*[,;]`),
	regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+[a-z]\s*[,;]`),
	regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s*$`),
	regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z]\.\s+[A-Z][a-z]+)\s*$`),
	regexp.MustCompile(`^([A-Z][a-z]+),\s+([A-Z][a-z]+(?:\s+[A-Z]\.)?)\s*$`),
	regexp.MustCompile(`^(\p{Han}{2,4}(?:\s+\p{Han}{2,4}){0,2})\s*$`),
}

const lastFirstPatternIdx = 4

var invalidAuthorKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Open\s+Access`), regexp.MustCompile(`(?i)Creative\s+Commons`),
	regexp.MustCompile(`(?i)©\s*The\s*Author`), regexp.MustCompile(`(?i)This\s+article`),
	regexp.MustCompile(`(?i)Attribution`), regexp.MustCompile(`(?i)NoDerivatives`),
	regexp.MustCompile(`(?i)RESEARCH`), regexp.MustCompile(`(?i)International\s+Journal`),
	regexp.MustCompile(`(?i)Int\.\s*J\.`), regexp.MustCompile(`(?i)Vol\.`),
	regexp.MustCompile(`(?i)Volume`), regexp.MustCompile(`(?i)Expert\s+Systems`),
	regexp.MustCompile(`(?i)Direct\s+Journals`), regexp.MustCompile(`(?i)Science\s+Direct`),
	regexp.MustCompile(`(?i)Introduction`), regexp.MustCompile(`(?i)Abstract`),
	regexp.MustCompile(`(?i)Keywords`), regexp.MustCompile(`(?i)Engineering\s+Failure`),
	regexp.MustCompile(`(?i)Failure\s+Analysis`), regexp.MustCompile(`(?i)Engineering\s+Structures`),
	regexp.MustCompile(`(?i)Journal\s+of`), regexp.MustCompile(`(?i)Article\s+in\s+Press`),
	regexp.MustCompile(`(?i)Available\s+online`), regexp.MustCompile(`(?i)Published\s+by`),
	regexp.MustCompile(`(?i)Copyright`), regexp.MustCompile(`(?i)All\s+Rights\s+Reserved`),
	regexp.MustCompile(`(?i)Elsevier`), regexp.MustCompile(`(?i)Springer`),
	regexp.MustCompile(`(?i)IEEE`), regexp.MustCompile(`(?i)ACM`),
	regexp.MustCompile(`(?i)Publisher`), regexp.MustCompile(`(?i)Editorial`),
	regexp.MustCompile(`(?i)Correspondence`),
}

var (
	reEqualContrib = regexp.MustCompile(`(?i)\((contributed equally|equal contribution)\)`)
	reNameMarks    = regexp.MustCompile(`[†‡*]`)
	reSupMarks1    = regexp.MustCompile(`\s+[a-z]\s*[,;]\s*[a-z]`)
	reSupMarks2    = regexp.MustCompile(`\s*[a-z]\s*[,;]\s*[a-z]\s*$`)
	reDigit        = regexp.MustCompile(`\d`)
)

// Author extracts the most likely first author from raw text near the top
// of the page. Candidate lines are matched against name shapes, cleaned of
// superscript marks, and rejected when they look like journal or publisher
// strings.
func Author(text string) string {
	if text == "" {
		return ""
	}
	lines := headLines(text, authorSearchChars)

	var candidates []candidate
	for i, line := range lines {
		if i >= authorScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || containsInvalidName(strings.ToLower(line)) {
			continue
		}

		for idx, pattern := range authorPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			var author string
			if idx == lastFirstPatternIdx && len(m) >= 3 {
				author = strings.TrimSpace(m[2] + " " + m[1])
			} else {
				author = strings.TrimSpace(m[1])
			}
			author = cleanAuthor(author)
			if author == "" || !validAuthor(author) {
				continue
			}
			candidates = append(candidates, candidate{priority: 100 - i, text: author})
			break
		}
	}

	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority > candidates[j].priority
	})
	return candidates[0].text
}

func cleanAuthor(author string) string {
	author = reEqualContrib.ReplaceAllString(author, "")
	author = reNameMarks.ReplaceAllString(author, "")
	author = reSupMarks1.ReplaceAllString(author, "")
	author = reSupMarks2.ReplaceAllString(author, "")
	return strings.TrimSpace(author)
}

func validAuthor(author string) bool {
	lower := strings.ToLower(author)
	if containsInvalidName(lower) {
		return false
	}
	if len(author) < 5 || len(author) > 100 {
		return false
	}
	if reDigit.MatchString(author) {
		return false
	}
	for _, re := range invalidAuthorKeywords {
		if re.MatchString(author) {
			return false
		}
	}

	words := strings.Fields(author)
	if len(words) < 2 {
		return false
	}
	if reHasCJK.MatchString(author) {
		return true
	}
	return startsUpper(words[0]) && startsUpper(words[1])
}

func containsInvalidName(lower string) bool {
	for _, invalid := range invalidAuthorNames {
		if strings.Contains(lower, invalid) {
			return true
		}
	}
	return false
}

func startsUpper(w string) bool {
	return w != "" && w[0] >= 'A' && w[0] <= 'Z'
}
