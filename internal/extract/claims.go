package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/specsynth/internal/model"
)

const (
	quoteWords    = 25  // Words kept in a short quote
	quoteMaxRunes = 100 // Short quote length cap
	quoteMinRunes = 10  // Quotes this short or shorter are not claims
)

var headingPattern = regexp.MustCompile(`^#+\s+(.+)$`)

// intentPattern pairs a keyword pattern with the intent it signals
type intentPattern struct {
	pattern *regexp.Regexp
	intent  model.NormativeIntent
}

// ClaimExtractor extracts normative claims from Markdown-like text, one line at a time
type ClaimExtractor struct {
	patterns []intentPattern
}

// NewClaimExtractor creates a new claim extractor. Patterns are tried in
// order and the first match decides the intent, so explicit wins.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		patterns: []intentPattern{
			{regexp.MustCompile(`(?i)\b(MUST|SHALL|REQUIRED)\b`), model.IntentExplicit},
			{regexp.MustCompile(`(?i)\b(should|recommend|ensure|verify|validate)\b`), model.IntentImplicit},
		},
	}
}

var defaultExtractor = NewClaimExtractor()

// ExtractClaims extracts claims from text with the default extractor
func ExtractClaims(text, path string) []model.Claim {
	return defaultExtractor.Extract(text, path)
}

// Extract extracts claims from text attributed to path
func (e *ClaimExtractor) Extract(text, path string) []model.Claim {
	var claims []model.Claim
	heading := model.DefaultHeading

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			heading = strings.TrimSpace(m[1])
			continue
		}

		for _, p := range e.patterns {
			if !p.pattern.MatchString(line) {
				continue
			}
			quote := shortQuote(line)
			if utf8.RuneCountInString(quote) > quoteMinRunes {
				claims = append(claims, model.Claim{
					Statement:       strings.TrimSpace(line),
					SourcePath:      path,
					SourceHeading:   heading,
					ShortQuote:      Truncate(quote, quoteMaxRunes),
					NormativeIntent: p.intent,
				})
			}
			break // One claim per line at most
		}
	}

	return claims
}

// shortQuote joins the first quoteWords whitespace-separated words of line
func shortQuote(line string) string {
	words := strings.Fields(line)
	if len(words) > quoteWords {
		words = words[:quoteWords]
	}
	return strings.Join(words, " ")
}

// Truncate returns at most n runes of s
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
