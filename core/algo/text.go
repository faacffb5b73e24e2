package algo

import "strings"

// WordSet returns the set of lowercase whitespace-separated words in text.
func WordSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Jaccard is |A∩B| / |A∪B| over the word sets of a and b.
// It is 0 when either side has no words.
func Jaccard(a, b string) float64 {
	wa, wb := WordSet(a), WordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	return float64(inter) / float64(union)
}

// CountTerms counts how many distinct terms occur anywhere in text, ignoring
// case. Terms match inside longer words ("ai" in "email"). Each term counts at
// most once.
func CountTerms(text string, terms []string) int {
	return len(MatchSubstrings(text, terms))
}

// MatchSubstrings returns the phrases that occur anywhere in text, ignoring
// case, in phrase-list order. Each phrase appears at most once.
func MatchSubstrings(text string, phrases []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			found = append(found, p)
		}
	}
	return found
}

// TermDensity is CountTerms(text, terms) divided by the whitespace word
// count of text, floored at one word.
func TermDensity(text string, terms []string) float64 {
	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}
	return float64(CountTerms(text, terms)) / float64(words)
}
