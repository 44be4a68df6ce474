package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Detector scans feedback text for sensitive lexicon terms.
type Detector struct {
	lexicon *Lexicon
}

func NewDetector(lexicon *Lexicon) *Detector {
	return &Detector{lexicon: lexicon}
}

// Detect returns the distinct lexicon terms found in text, in lexicon
// declaration order. Matching is whole-word over the normalized forms of
// both sides; empty input yields nil. Cost is O(lexicon × text), which is
// fine for feedback-sized input against a static list.
func (d *Detector) Detect(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := Normalize(text)
	var matched []string
	for _, e := range d.lexicon.entries {
		if containsWord(normalized, e.normalized) {
			matched = append(matched, e.term)
		}
	}
	return matched
}

// containsWord reports whether term occurs in text anchored at word
// boundaries on both sides. "intoxication" does not match "intoxications".
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; start+len(term) <= len(text); {
		i := strings.Index(text[start:], term)
		if i < 0 {
			return false
		}
		i += start
		if boundaryBefore(text, i) && boundaryAfter(text, i+len(term)) {
			return true
		}
		start = i + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
