// Package phone finds telephone numbers in résumé text and rewrites them into
// a dialable form for the Pakistani numbering plan (country code 92).
//
// The result is advisory: the heuristics cover common local and international
// spellings, not E.164 in general.
package phone

import (
	"regexp"
	"strings"
)

const (
	// CountryCode is prepended to national numbers.
	CountryCode = "92"
	// MinDigits is the shortest digit string accepted as a phone number.
	MinDigits = 10
)

// Rule is a single extraction pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules are tried in order, most specific first. The Pakistani rules
// stop after the subscriber digits so trailing numbers such as years are not
// glued onto the phone number.
var DefaultRules = []Rule{
	{Name: "international_92", Pattern: regexp.MustCompile(`\+92(?:[\s\-]*\d){10}`)},
	{Name: "country_code_92", Pattern: regexp.MustCompile(`92(?:[\s\-]*\d){10}`)},
	{Name: "national_mobile", Pattern: regexp.MustCompile(`03(?:[\s\-]*\d){9}`)},
	{Name: "international", Pattern: regexp.MustCompile(`\+[\d\s\-]{10,15}`)},
	{Name: "digits", Pattern: regexp.MustCompile(`[\(]?[\d\s\-\)]{10,15}`)},
	{Name: "labeled", Pattern: regexp.MustCompile(`(?i)(?:phone|mobile|cell|contact)[\s:]+[\+]?[\d\s\-\(\)]{10,15}`)},
}

var (
	labelRe    = regexp.MustCompile(`(?i)phone|mobile|cell|contact|:`)
	nonDigitRe = regexp.MustCompile(`[^\d+]`)
)

// Extractor finds phone numbers using an ordered rule list.
type Extractor struct {
	rules []Rule
}

// NewExtractor returns an extractor over rules, or DefaultRules when none are given.
func NewExtractor(rules ...Rule) *Extractor {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Extractor{rules: rules}
}

// Extract returns the digits of the first number found in text and the name
// of the rule that found it. Each rule only considers its first match; a
// match with fewer than MinDigits digits falls through to the next rule.
func (e *Extractor) Extract(text string) (digits, rule string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", "", false
	}

	for _, r := range e.rules {
		match := r.Pattern.FindString(text)
		if match == "" {
			continue
		}

		cleaned := digitsOnly(labelRe.ReplaceAllString(match, ""))
		if len(cleaned) >= MinDigits {
			return cleaned, r.Name, true
		}
	}

	return "", "", false
}

// Normalize rewrites a raw number into its dialable form.
func Normalize(raw string) (string, bool) {
	p := digitsOnly(raw)

	switch {
	case len(p) == 11 && strings.HasPrefix(p, "0"):
		p = CountryCode + p[1:]
	case len(p) == 10 && !strings.HasPrefix(p, CountryCode):
		p = CountryCode + p
	}

	if len(p) >= 12 && strings.HasPrefix(p, CountryCode) {
		return p, true
	}
	if len(p) >= MinDigits {
		return p, true
	}
	return "", false
}

// Find extracts and normalizes the first phone number in text.
func (e *Extractor) Find(text string) (string, bool) {
	digits, _, ok := e.Extract(text)
	if !ok {
		return "", false
	}
	return Normalize(digits)
}

func digitsOnly(s string) string {
	return strings.ReplaceAll(nonDigitRe.ReplaceAllString(s, ""), "+", "")
}
