package textproc

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// English clitics split off the end of a word, longest first.
var clitics = []string{"n't", "'re", "'ve", "'ll", "'s", "'d", "'m"}

// Sentences splits text on Unicode sentence boundaries. Sentences are
// trimmed and empty ones dropped, so whitespace-only input yields none.
func Sentences(text string) []string {
	var sentences []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var sentence string
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		if s := strings.TrimSpace(sentence); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Words splits text on Unicode word boundaries and separates trailing
// English clitics ("n't", "'s", ...) into their own tokens. Whitespace
// segments are dropped; punctuation segments are kept.
func Words(text string) []string {
	var words []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if strings.TrimSpace(word) == "" {
			continue
		}
		words = append(words, splitClitic(word)...)
	}
	return words
}

func splitClitic(word string) []string {
	normalized := strings.ReplaceAll(word, "’", "'")
	for _, clitic := range clitics {
		if len(normalized) > len(clitic) && strings.HasSuffix(normalized, clitic) {
			return []string{normalized[:len(normalized)-len(clitic)], clitic}
		}
	}
	return []string{word}
}

// Tokens case-folds text and returns its alphanumeric, non-stop-word tokens
// in original order.
func Tokens(text string) []string {
	// A Caser holds state and must not be shared between goroutines.
	folded := cases.Fold().String(norm.NFKC.String(text))

	words := Words(folded)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if !IsAlphanumeric(word) || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Normalize reduces text to its case-folded, alphanumeric, non-stop-word
// tokens joined by single spaces. Text with no surviving tokens normalizes
// to the empty string.
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}

// IsAlphanumeric reports whether s is non-empty and every rune is a letter
// or a number.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
