package quran

import (
	"fmt"

	"github.com/talebmz/ayagraph/core/qerrors"
)

// Chapter is a top-level grouping of ordered verses. Constructed once by
// the loader and never altered; the verse slice must not be mutated by
// callers.
type Chapter struct {
	Number int    // 1..114
	Name   string // Arabic display name, non-empty
	Verses []Verse
	// Optional metadata, empty means absent.
	EnglishName    string
	RevelationType string // "Meccan" or "Medinan" when present
}

// NewChapter validates and constructs a Chapter. Every verse must already
// carry this chapter's number.
func NewChapter(number int, name string, verses []Verse, englishName, revelationType string) (Chapter, error) {
	if number < 1 || number > TotalChapters {
		return Chapter{}, &qerrors.ValidationError{Field: "number", Message: fmt.Sprintf("out of range: %d", number)}
	}
	if name == "" {
		return Chapter{}, &qerrors.ValidationError{Field: "name", Message: "chapter name cannot be empty"}
	}
	if len(verses) == 0 {
		return Chapter{}, &qerrors.ValidationError{Field: "verses", Message: "chapter must contain at least one verse"}
	}
	for _, v := range verses {
		if v.Chapter != number {
			return Chapter{}, &qerrors.ValidationError{
				Field:   "verses",
				Message: fmt.Sprintf("verse %d:%d does not belong to chapter %d", v.Chapter, v.Number, number),
			}
		}
	}

	owned := make([]Verse, len(verses))
	copy(owned, verses)
	return Chapter{
		Number:         number,
		Name:           name,
		Verses:         owned,
		EnglishName:    englishName,
		RevelationType: revelationType,
	}, nil
}

// VerseCount returns the number of verses in the chapter.
func (c Chapter) VerseCount() int {
	return len(c.Verses)
}

// Verse returns the verse with the given number, or false if absent.
func (c Chapter) Verse(number int) (Verse, bool) {
	for _, v := range c.Verses {
		if v.Number == number {
			return v, true
		}
	}
	return Verse{}, false
}

// ApproxTotalWords sums the whitespace-approximate word counts of all
// verses. See Verse.ApproxWordCount for the caveat.
func (c Chapter) ApproxTotalWords() int {
	total := 0
	for _, v := range c.Verses {
		total += v.ApproxWordCount()
	}
	return total
}

// String renders the chapter number, name and verse count.
func (c Chapter) String() string {
	return fmt.Sprintf("chapter %d: %s (%d verses)", c.Number, c.Name, len(c.Verses))
}
