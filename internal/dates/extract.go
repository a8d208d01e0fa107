package dates

import (
	"log/slog"
	"regexp"
	"strings"
)

// Keyword anchors per kind. Revised runs before Received because
// "Received in revised form" contains "Received".
var kindKeywords = map[Kind][]string{
	RevisedReceived: {
		"Received in revised form",
		"in revised form",
		"revised form",
		"Revised",
		"Revised:",
	},
	Received: {
		"Received",
		"Received date",
		"Received:",
		"Submitted",
		"Submitted on",
		"Submission date",
	},
	Accepted: {
		"Accepted",
		"Accepted date",
		"Accepted:",
		"Acceptance date",
	},
	AvailableOnline: {
		"Available online",
		"Available online:",
		"Published online",
		"Published online:",
		"Online available",
		"Online available:",
	},
	Published: {
		"Published",
		"Published date",
		"Published:",
		"Publication date",
		"Date of publication",
	},
}

// Date patterns ordered most specific first; the first pattern that matches
// inside a keyword window wins.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}(?:st|nd|rd|th)?\s+[A-Z][a-z]+\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}\s+[A-Z][a-z]+\s+\d{4})`),
	regexp.MustCompile(`([A-Z][a-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
	regexp.MustCompile(`([A-Z][a-z]+\s+\d{1,2},\s+\d{4})`),
	regexp.MustCompile(`(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
	regexp.MustCompile(`(\d{1,2}[-/]\d{1,2}[-/]\d{4})`),
	regexp.MustCompile(`(\d{4})`),
}

var (
	reWhitespace  = regexp.MustCompile(`\s+`)
	reJournalInfo = regexp.MustCompile(`(?i)(Computers|Electronics|Agriculture|Journal|Volume|Vol\.|\(\d{4}\)|doi|\d{6})`)
)

// ExtractorConfig carries the window and citation-interference distances.
type ExtractorConfig struct {
	WindowChars        int // context after an anchor keyword
	OnlineWindowChars  int // wider context for the available-online anchor
	CiteNearChars      int // journal text this close to the anchor is ignored
	CiteMidChars       int // beyond this a date no longer counts as anchored
	RelaxedWindowChars int // fallback scan window after the anchor
}

func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		WindowChars:        200,
		OnlineWindowChars:  300,
		CiteNearChars:      50,
		CiteMidChars:       80,
		RelaxedWindowChars: 100,
	}
}

// Extractor pulls per-kind dates out of raw page text using keyword anchors.
type Extractor struct {
	cfg    ExtractorConfig
	logger *slog.Logger
}

func NewExtractor(cfg ExtractorConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WindowChars <= 0 {
		cfg = DefaultExtractorConfig()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract scans text for lifecycle dates. All values are normalized to
// YYYY-MM-DD where possible; an absent kind is simply missing from the map.
func (e *Extractor) Extract(text string) map[Kind]string {
	out := map[Kind]string{}

	if d := e.extractAnchored(text, RevisedReceived); d != "" {
		out[RevisedReceived] = d
	}
	if d := e.extractReceived(text); d != "" {
		out[Received] = d
	}
	if d := e.extractAnchored(text, Accepted); d != "" {
		out[Accepted] = d
	}
	if d := e.extractAvailableOnline(text); d != "" {
		out[AvailableOnline] = d
	} else if d := e.extractAnchored(text, Published); d != "" {
		// Published is only consulted when no online date was found.
		out[Published] = d
	}

	for k, v := range out {
		if n := Normalize(v); n != "" {
			out[k] = n
		}
	}
	return out
}

// extractAnchored finds the first keyword occurrence for the kind and runs
// the pattern ladder over the window after it.
func (e *Extractor) extractAnchored(text string, kind Kind) string {
	for _, kw := range kindKeywords[kind] {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		window := windowAfter(text, loc[0], e.cfg.WindowChars)
		window = reWhitespace.ReplaceAllString(window, " ")
		if d := firstDate(window); d != "" {
			e.logger.Debug("dates.extract.found", "kind", string(kind), "keyword", kw, "raw", d)
			return d
		}
	}
	return ""
}

// extractReceived walks every keyword occurrence and skips the ones that are
// actually part of "Received in revised form".
func (e *Extractor) extractReceived(text string) string {
	for _, kw := range kindKeywords[Received] {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
		for _, loc := range re.FindAllStringIndex(text, -1) {
			probe := strings.ToLower(windowAfter(text, loc[0], 30))
			if strings.Contains(probe, "received in revised form") || strings.Contains(probe, "in revised form") {
				continue
			}
			window := windowAfter(text, loc[0], e.cfg.WindowChars)
			window = reWhitespace.ReplaceAllString(window, " ")
			if d := firstDate(window); d != "" {
				e.logger.Debug("dates.extract.found", "kind", string(Received), "keyword", kw, "raw", d)
				return d
			}
		}
	}
	return ""
}

// extractAvailableOnline applies the citation-interference heuristic: the
// first page footer often runs the keyword into the journal citation line, so
// a date sitting close to journal text may belong to the citation instead.
func (e *Extractor) extractAvailableOnline(text string) string {
	for _, kw := range kindKeywords[AvailableOnline] {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		kwLen := loc[1] - loc[0]
		window := windowAfter(text, loc[0], e.cfg.OnlineWindowChars)

		for _, pat := range datePatterns {
			for _, m := range pat.FindAllStringSubmatchIndex(window, -1) {
				dateStart := m[2]
				if dateStart < kwLen {
					continue
				}
				distance := dateStart - kwLen
				if distance > e.cfg.CiteMidChars {
					continue
				}
				between := reWhitespace.ReplaceAllString(window[kwLen:dateStart], " ")
				if reJournalInfo.MatchString(between) && distance >= e.cfg.CiteNearChars {
					e.logger.Debug("dates.extract.skip_citation",
						"keyword", kw, "distance", distance)
					continue
				}
				return window[m[2]:m[3]]
			}
		}

		// Relaxed pass: anything date-shaped shortly after the keyword.
		relaxed := windowAfter(text, loc[1], e.cfg.RelaxedWindowChars)
		if d := firstDate(relaxed); d != "" {
			return d
		}
	}
	return ""
}

func firstDate(s string) string {
	for _, pat := range datePatterns {
		if m := pat.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

func windowAfter(text string, start, n int) string {
	end := start + n
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
