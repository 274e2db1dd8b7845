// Package textnorm provides text normalization and sub-pattern extraction
// utilities for merchant and description text. All functions are pure and
// stateless.
package textnorm

import (
	"regexp"
	"strings"
)

// abbreviations expanded during normalization, applied on word boundaries.
var abbreviations = map[string]string{
	"ltd":  "limited",
	"inc":  "incorporated",
	"corp": "corporation",
	"intl": "international",
	"pvt":  "private",
	"co":   "company",
}

// stopWords removed from normalized text and keyword lists.
var stopWords = map[string]bool{
	"the": true, "to": true, "from": true, "in": true, "out": true,
	"of": true, "for": true, "and": true, "with": true, "by": true,
}

var (
	currencyRe   = regexp.MustCompile(`(?i)\b(?:kshs?|kes|usd|eur|gbp)\b\.?|[$€£]`)
	amountRe     = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+\.\d+`)
	nonWordRe    = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text: lowercases, strips currency symbols and
// amount-looking numerics, replaces non-word characters with spaces, expands
// a fixed abbreviation table and removes stop words.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, "&", " and ")
	s = currencyRe.ReplaceAllString(s, " ")
	s = amountRe.ReplaceAllString(s, " ")
	s = nonWordRe.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if full, ok := abbreviations[w]; ok {
			w = full
		}
		if stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return whitespaceRe.ReplaceAllString(strings.Join(out, " "), " ")
}

// ExtractKeywords normalizes text and returns its significant tokens.
// Tokens of length <= 2 and stop words are dropped.
func ExtractKeywords(text string) []string {
	var keywords []string
	for _, w := range strings.Fields(Normalize(text)) {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

var (
	// Bare receipt-style code: 6+ alphanumerics mixing letters and digits.
	bareCodeRe = regexp.MustCompile(`\b[A-Z0-9]{6,}\b`)
	hasDigitRe = regexp.MustCompile(`\d`)
	hasAlphaRe = regexp.MustCompile(`[A-Z]`)

	prefixedCodeRe = regexp.MustCompile(`(?i)\b(?:TRX|TXN)[#:\s-]*([A-Z0-9]{4,})\b`)

	referencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bREF(?:ERENCE)?\s*(?:NO\.?|NUMBER|#)?\s*[:\-]?\s*([A-Z0-9][A-Z0-9-]{3,})`),
		regexp.MustCompile(`(?i)\bTRANSACTION\s*(?:ID|NO\.?|NUMBER)\s*[:\-]?\s*([A-Z0-9][A-Z0-9-]{3,})`),
	}
)

// ExtractTransactionCode finds a receipt/transaction code in the text.
// A bare alphanumeric run of 6+ characters mixing letters and digits wins;
// otherwise a TRX/TXN-prefixed code is accepted. Returns "" when none match.
func ExtractTransactionCode(text string) string {
	upper := strings.ToUpper(text)
	for _, m := range bareCodeRe.FindAllString(upper, -1) {
		if hasDigitRe.MatchString(m) && hasAlphaRe.MatchString(m) {
			return m
		}
	}
	if m := prefixedCodeRe.FindStringSubmatch(text); len(m) > 1 {
		return strings.ToUpper(m[1])
	}
	return ""
}

// ExtractReferenceNumber finds an explicitly labelled reference value
// ("REF", "REFERENCE", "TRANSACTION NO" and similar). Returns "" when no
// label is present.
func ExtractReferenceNumber(text string) string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}
