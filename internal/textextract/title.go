// Package textextract pulls a probable title and first author out of raw
// page text when neither document metadata nor structured OCR fields
// produced one. Heuristics only; an empty return means "no usable value",
// never an error.
package textextract

import (
	"regexp"
	"sort"
	"strings"
)

const (
	titleSearchChars  = 5000
	titleMinChars     = 20
	titleMaxChars     = 500
	titleScanLines    = 30
	titleTaggedLines  = 20
	titleAutoLines    = 10
	authorSearchChars = 3000
	authorScanLines   = 40
)

// Lines that are headers, footers, or journal furniture, never titles.
var invalidLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.\.\d+`),
	regexp.MustCompile(`^[A-Z0-9]{5,20}\s+\d+`),
	regexp.MustCompile(`(?i)^view\s+(article|journal|pdf)`),
	regexp.MustCompile(`(?i)^published\s+on`),
	regexp.MustCompile(`(?i)^downloaded\s+on`),
	regexp.MustCompile(`(?i)^doi:`),
	regexp.MustCompile(`(?i)^rsc\.li/`),
	regexp.MustCompile(`(?i)^check\s+for\s+updates`),
	regexp.MustCompile(`(?i)^cite\s+this:`),
	regexp.MustCompile(`(?i)^received\s+\d+`),
	regexp.MustCompile(`(?i)^accepted\s+\d+`),
	regexp.MustCompile(`(?i)^nanoscale|^paper$`),
	regexp.MustCompile(`(?i)^royal\s+society`),
}

var (
	reTitleTag     = regexp.MustCompile(`(?i)^(title|标题)[:\s]+`)
	reSectionHead  = regexp.MustCompile(`(?i)^(introduction|abstract|keywords|摘要|关键词)`)
	reSectionStop  = regexp.MustCompile(`(?i)^(introduction|abstract|keywords|摘要|关键词|received|accepted|published)`)
	reHasLowercase = regexp.MustCompile(`[a-z]`)
	reHasCJK       = regexp.MustCompile(`\p{Han}`)
)

// Words that make a line more likely a paper title than affiliation text.
var titleKeywords = []string{
	"computational", "screening", "analysis", "study", "investigation",
	"method", "approach", "framework", "model", "system",
	"基于", "研究", "方法", "分析", "系统",
}

type candidate struct {
	priority int
	text     string
}

// Title extracts the most likely paper title from raw text. It scores
// single lines, explicit "TITLE:"-tagged blocks, and automatically merged
// multi-line runs near the top of the page, then returns the best candidate.
func Title(text string) string {
	if text == "" {
		return ""
	}
	lines := headLines(text, titleSearchChars)

	var candidates []candidate
	candidates = append(candidates, singleLineTitles(lines)...)
	candidates = append(candidates, taggedTitles(lines)...)
	if c, ok := autoMergedTitle(lines); ok {
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority > candidates[j].priority
	})
	return candidates[0].text
}

func singleLineTitles(lines []string) []candidate {
	var out []candidate
	for i, line := range lines {
		if i >= titleScanLines {
			break
		}
		line = strings.TrimSpace(reTitleTag.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" || isInvalidLine(line) || reSectionHead.MatchString(line) {
			continue
		}
		if len(line) < titleMinChars || len(line) > titleMaxChars {
			continue
		}
		if strings.Contains(line, "http") || strings.Contains(line, "@") ||
			strings.Contains(strings.ToLower(line), "doi:") {
			continue
		}
		if !reHasLowercase.MatchString(line) && !reHasCJK.MatchString(line) {
			continue
		}
		if line == strings.ToUpper(line) && len(line) > 15 {
			continue
		}
		priority := 100 - i
		if hasTitleKeyword(line) {
			priority += 50
		}
		out = append(out, candidate{priority: priority, text: line})
	}
	return out
}

// taggedTitles merges a "TITLE:" line with its continuation lines.
func taggedTitles(lines []string) []candidate {
	var out []candidate
	for i, line := range lines {
		if i >= titleTaggedLines {
			break
		}
		line = strings.TrimSpace(line)
		if !reTitleTag.MatchString(line) {
			continue
		}
		parts := []string{strings.TrimSpace(reTitleTag.ReplaceAllString(line, ""))}
		for j := i + 1; j < len(lines) && j < i+5; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				break
			}
			if len(next) > 10 &&
				(reHasLowercase.MatchString(next) || reHasCJK.MatchString(next)) &&
				!reSectionStop.MatchString(next) {
				parts = append(parts, next)
			} else {
				break
			}
		}
		if len(parts) > 1 {
			combined := strings.Join(parts, " ")
			if len(combined) >= titleMinChars && len(combined) <= titleMaxChars {
				out = append(out, candidate{priority: 150 - i, text: combined})
			}
		}
	}
	return out
}

// autoMergedTitle joins a run of long title-looking lines at the very top,
// the usual shape of an OCR-split title.
func autoMergedTitle(lines []string) (candidate, bool) {
	var parts []string
	for i, line := range lines {
		if i >= titleAutoLines {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || isInvalidLine(line) {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if len(line) > 20 &&
			(reHasLowercase.MatchString(line) || reHasCJK.MatchString(line)) &&
			!reSectionStop.MatchString(line) &&
			!strings.Contains(line, "http") && !strings.Contains(line, "@") {
			parts = append(parts, line)
		} else if len(parts) > 0 {
			break
		}
	}
	if len(parts) == 0 {
		return candidate{}, false
	}
	combined := strings.Join(parts, " ")
	if len(combined) < titleMinChars || len(combined) > titleMaxChars {
		return candidate{}, false
	}
	priority := 80
	if hasTitleKeyword(combined) {
		priority = 120
	}
	return candidate{priority: priority, text: combined}, true
}

func isInvalidLine(line string) bool {
	for _, re := range invalidLinePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func hasTitleKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func headLines(text string, maxChars int) []string {
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	return strings.Split(text, "\n")
}
