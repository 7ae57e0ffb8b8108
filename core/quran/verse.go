// Package quran defines the immutable entity model for the corpus:
// chapters, verses, words, and verse references. Every entity is built
// through a validating constructor and never mutated afterwards; equality
// is by field values.
package quran

import (
	"fmt"
	"strings"

	"github.com/talebmz/ayagraph/core/qerrors"
)

// TotalChapters is the fixed number of chapters in the corpus.
const TotalChapters = 114

// Verse is one ordered text unit within a chapter. The zero value is not a
// valid verse; use NewVerse.
type Verse struct {
	Chapter int    // owning chapter number, 1..114
	Number  int    // verse number within the chapter, >= 1
	Text    string // raw Arabic text, non-empty
	// NumberInQuran is the global verse sequence number across the whole
	// corpus. Zero means absent.
	NumberInQuran int
}

// NewVerse validates and constructs a Verse. A zero numberInQuran means the
// global sequence number is unknown.
func NewVerse(chapter, number int, text string, numberInQuran int) (Verse, error) {
	if chapter < 1 || chapter > TotalChapters {
		return Verse{}, &qerrors.ValidationError{Field: "chapter", Message: fmt.Sprintf("out of range: %d", chapter)}
	}
	if number < 1 {
		return Verse{}, &qerrors.ValidationError{Field: "verse", Message: fmt.Sprintf("must be >= 1, got %d", number)}
	}
	if text == "" {
		return Verse{}, &qerrors.ValidationError{Field: "text", Message: "verse text cannot be empty"}
	}
	if numberInQuran < 0 {
		return Verse{}, &qerrors.ValidationError{Field: "numberInQuran", Message: fmt.Sprintf("must be >= 1 when present, got %d", numberInQuran)}
	}
	return Verse{Chapter: chapter, Number: number, Text: text, NumberInQuran: numberInQuran}, nil
}

// Location returns the (chapter, verse) pair identifying this verse.
func (v Verse) Location() (chapter, number int) {
	return v.Chapter, v.Number
}

// ApproxWordCount counts whitespace-separated fields in the raw text.
// This is an approximation for when full tokenization has not been run;
// boundary punctuation is not trimmed. Use arabic.CountWords for the
// authoritative count.
func (v Verse) ApproxWordCount() int {
	return len(strings.Fields(v.Text))
}

// String renders the verse location with a short text preview.
func (v Verse) String() string {
	preview := v.Text
	if runes := []rune(preview); len(runes) > 50 {
		preview = string(runes[:50]) + "..."
	}
	return fmt.Sprintf("%d:%d %s", v.Chapter, v.Number, preview)
}
