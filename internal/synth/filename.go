package synth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// KebabFilename lowercases name, collapses non-alphanumeric runs to one
// hyphen, trims hyphens and appends ".md".
func KebabFilename(name string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "-"), "-") + ".md"
}

// Filename returns the configured filename for a cluster or its kebab form
func Filename(name string, overrides map[string]string) string {
	if fn, ok := overrides[name]; ok && fn != "" {
		return fn
	}
	return KebabFilename(name)
}

// ClaimPrefix is the uppercase of the cluster name's first three characters
func ClaimPrefix(name string) string {
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	for i, r := range runes {
		runes[i] = unicode.ToUpper(r)
	}
	return string(runes)
}

// ClaimID formats the seq-th claim ID of a cluster, e.g. "GOV-007"
func ClaimID(name string, seq int) string {
	return fmt.Sprintf("%s-%03d", ClaimPrefix(name), seq)
}
