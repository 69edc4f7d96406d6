// Package research implements the decompose → retrieve → synthesize pipeline.
package research

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSubtopics caps how many decomposed subtopics are researched.
	MaxSubtopics = 3
	// MaxResults is how many search results are visited per query.
	MaxResults = 3
	// MaxKeywords is how many keywords an article keeps.
	MaxKeywords = 5
	// SummaryChars is the rune length of an article summary before "...".
	SummaryChars = 500
	// MinContentChars is the trimmed length a page must exceed to be usable.
	MinContentChars = 100
	// MinKeywordLen is the shortest alphabetic word counted as a keyword.
	MinKeywordLen = 5
)

// blockedMarkers flag login walls and paywalls. Matched against lowercase text.
var blockedMarkers = []string{"login", "sign in", "register to view"}

// IsAccessibleContent reports whether page text is usable: no login/paywall
// marker and more than MinContentChars runes once trimmed.
func IsAccessibleContent(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range blockedMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) > MinContentChars
}

// Summarize keeps the first SummaryChars runes of text, marking a cut with "...".
func Summarize(text string) string {
	if utf8.RuneCountInString(text) <= SummaryChars {
		return text
	}
	return string([]rune(text)[:SummaryChars]) + "..."
}

// ExtractKeywords returns the topK most frequent words of text that consist
// solely of ASCII letters and are at least MinKeywordLen long. Words are
// delimited by non-word characters; equal counts keep first-seen order.
func ExtractKeywords(text string, topK int) []string {
	out := make([]string, 0, topK)
	if topK <= 0 {
		return out
	}
	counts := make(map[string]int)
	var order []string
	for _, w := range words(strings.ToLower(text)) {
		if len(w) < MinKeywordLen || !isASCIIAlpha(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for i := 0; i < len(order) && i < topK; i++ {
		out = append(out, order[i])
	}
	return out
}

// words splits s into maximal runs of word characters (letters, digits, _).
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_')
	})
}

func isASCIIAlpha(w string) bool {
	for i := 0; i < len(w); i++ {
		c := w[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
