package scorer

import (
	"strings"
	"unicode"

	"sentimeter/internal/core/normalize"
)

var norm = normalize.New()

// tokenize folds text through the shared normalizer and splits it into
// word tokens of at least two runes. Single-character tokens carry no
// sentiment signal and only inflate the vocabulary
func tokenize(text string) []string {
	folded := norm.Normalize(text)
	if folded == "" {
		return nil
	}
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// terms expands tokens into the unigram+bigram feature stream.
// Bigrams are space-joined so they share the vocabulary map with unigrams
func terms(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
