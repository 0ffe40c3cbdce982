package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// maxKeywords caps how many terms a prompt contributes to relevance scoring.
const maxKeywords = 10

var nonWordPattern = regexp.MustCompile(`[^a-z0-9_]+`)

// stopWords are common terms that carry no topical signal.
// Words shorter than the configured minimum keyword length never reach
// this set, so only longer fillers need to be listed.
var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "also": {}, "always": {},
	"another": {}, "anything": {}, "back": {}, "because": {}, "been": {},
	"before": {}, "being": {}, "between": {}, "both": {}, "cannot": {},
	"come": {}, "could": {}, "does": {}, "doing": {}, "down": {},
	"each": {}, "even": {}, "every": {}, "everything": {}, "from": {},
	"give": {}, "good": {}, "have": {}, "having": {}, "here": {},
	"into": {}, "just": {}, "know": {}, "like": {}, "look": {},
	"make": {}, "many": {}, "more": {}, "most": {}, "much": {},
	"need": {}, "only": {}, "other": {}, "over": {}, "please": {},
	"really": {}, "said": {}, "same": {}, "should": {}, "some": {},
	"something": {}, "still": {}, "such": {}, "take": {}, "tell": {},
	"than": {}, "that": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "thing": {}, "think": {},
	"this": {}, "those": {}, "through": {}, "time": {}, "very": {},
	"want": {}, "well": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {},
}

// ExtractKeywords derives up to maxKeywords salient terms from a prompt.
// Terms are lowercased, stripped of non-word characters, filtered by
// minimum length, stop words, and pure-digit tokens, then ranked by
// descending frequency. Equal-frequency terms keep their first-occurrence
// order (stable sort).
func (b *ContextBuilder) ExtractKeywords(text string) []string {
	normalized := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(normalized) {
		if len(tok) < b.cfg.MinKeywordLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if isAllDigits(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
