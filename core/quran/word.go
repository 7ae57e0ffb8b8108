package quran

import (
	"fmt"

	"github.com/talebmz/ayagraph/core/qerrors"
)

// Word is one tokenized unit within a verse. The triple
// (Chapter, Verse, Position) is the word's stable identity regardless of
// text content; it is the key used by filters, relations, and graph nodes.
//
// Root and Lemma are empty when no morphological annotation is available.
// Absence is a valid "not yet known" state, not an error.
type Word struct {
	Chapter    int    // 1..114
	Verse      int    // >= 1
	Position   int    // zero-based index within the verse
	Text       string // raw Arabic text
	Normalized string // normalized form (default normalization options)
	Buckwalter string // Buckwalter transliteration
	Root       string // morphological root, empty = absent
	Lemma      string // lemma form, empty = absent
}

// NewWord validates and constructs a Word. Location fields and the three
// text forms are mandatory; root and lemma may be empty.
func NewWord(chapter, verse, position int, text, normalized, buckwalter, root, lemma string) (Word, error) {
	if chapter < 1 || chapter > TotalChapters {
		return Word{}, &qerrors.ValidationError{Field: "chapter", Message: fmt.Sprintf("out of range: %d", chapter)}
	}
	if verse < 1 {
		return Word{}, &qerrors.ValidationError{Field: "verse", Message: fmt.Sprintf("must be >= 1, got %d", verse)}
	}
	if position < 0 {
		return Word{}, &qerrors.ValidationError{Field: "position", Message: fmt.Sprintf("must be >= 0, got %d", position)}
	}
	if text == "" {
		return Word{}, &qerrors.ValidationError{Field: "text", Message: "word text cannot be empty"}
	}
	if normalized == "" {
		return Word{}, &qerrors.ValidationError{Field: "normalized", Message: "normalized text cannot be empty"}
	}
	if buckwalter == "" {
		return Word{}, &qerrors.ValidationError{Field: "buckwalter", Message: "transliteration cannot be empty"}
	}
	return Word{
		Chapter:    chapter,
		Verse:      verse,
		Position:   position,
		Text:       text,
		Normalized: normalized,
		Buckwalter: buckwalter,
		Root:       root,
		Lemma:      lemma,
	}, nil
}

// Location returns the identity triple (chapter, verse, position).
func (w Word) Location() (chapter, verse, position int) {
	return w.Chapter, w.Verse, w.Position
}

// Key returns the identity triple as a string, usable as a map key that
// ignores text content.
func (w Word) Key() string {
	return fmt.Sprintf("%d:%d:%d", w.Chapter, w.Verse, w.Position)
}

// SameLocation reports whether two words share the identity triple.
func (w Word) SameLocation(other Word) bool {
	return w.Chapter == other.Chapter && w.Verse == other.Verse && w.Position == other.Position
}

// HasRoot reports whether a morphological root is known.
func (w Word) HasRoot() bool { return w.Root != "" }

// HasLemma reports whether a lemma is known.
func (w Word) HasLemma() bool { return w.Lemma != "" }

// String renders the word text and its location.
func (w Word) String() string {
	return fmt.Sprintf("%s (%d:%d:%d)", w.Text, w.Chapter, w.Verse, w.Position)
}
