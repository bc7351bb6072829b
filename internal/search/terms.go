package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordRe = regexp.MustCompile(`[\pL\pN_]+`)

// stopwords are common English words that carry no signal for component
// lookup and are dropped during term extraction.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"been": {}, "but": {}, "by": {}, "call": {}, "come": {}, "could": {},
	"day": {}, "did": {}, "do": {}, "down": {}, "each": {}, "find": {},
	"first": {}, "for": {}, "from": {}, "get": {}, "had": {}, "has": {},
	"have": {}, "he": {}, "her": {}, "him": {}, "how": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "like": {},
	"made": {}, "make": {}, "many": {}, "may": {}, "more": {}, "my": {},
	"new": {}, "now": {}, "of": {}, "oil": {}, "on": {}, "only": {},
	"other": {}, "out": {}, "part": {}, "said": {}, "she": {}, "sit": {},
	"so": {}, "some": {}, "than": {}, "that": {}, "the": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "time": {}, "to": {}, "two": {}, "up": {}, "very": {},
	"was": {}, "were": {}, "what": {}, "when": {}, "which": {}, "who": {},
	"will": {}, "with": {}, "would": {}, "years": {},
}

// Terms extracts the significant lowercase terms from a raw query: word
// tokens minus stopwords and tokens shorter than three characters.
// First-occurrence order is kept and duplicates are allowed; an empty or
// stopword-only query yields an empty list.
func Terms(query string) []string {
	words := wordRe.FindAllString(strings.ToLower(query), -1)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}
