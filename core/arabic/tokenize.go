package arabic

import "strings"

// DefaultDelimiter is the delimiter used to split verse text into words.
const DefaultDelimiter = " "

// BoundaryChars is the fixed set of punctuation trimmed from word
// boundaries. It covers ASCII punctuation plus the Arabic question mark
// and Arabic comma.
const BoundaryChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~؟،"

// Token pairs a word with its zero-based position within the verse.
type Token struct {
	Text     string
	Position int
}

// Tokenize splits verse text into ordered word tokens. Each piece has
// boundary punctuation trimmed; pieces that become empty are dropped.
// An empty input yields an empty result.
func Tokenize(text, delimiter string) []string {
	if text == "" {
		return nil
	}

	pieces := strings.Split(text, delimiter)
	words := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		word := strings.Trim(piece, BoundaryChars)
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

// TokenizeWithPositions tokenizes verse text and tags each word with its
// zero-based index in the token sequence.
func TokenizeWithPositions(text, delimiter string) []Token {
	words := Tokenize(text, delimiter)
	tokens := make([]Token, len(words))
	for i, word := range words {
		tokens[i] = Token{Text: word, Position: i}
	}
	return tokens
}

// CountWords counts tokens in text. Unlike a naive whitespace split this
// accounts for boundary trimming, so pure-punctuation pieces do not count.
func CountWords(text, delimiter string) int {
	return len(Tokenize(text, delimiter))
}
