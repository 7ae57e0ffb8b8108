package quran

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Ref is a parsed chapter/verse reference such as "2", "2:255" or "2:1-5".
type Ref struct {
	Chapter  int `json:"chapter"`
	Verse    int `json:"verse,omitempty"`     // 0 for whole-chapter references
	VerseEnd int `json:"verse_end,omitempty"` // 0 unless the reference is a range
}

// refGrammar is the participle grammar for chapter:verse references.
//
type refGrammar struct {
	Chapter   int        `parser:"@Int"`
	VersePart *versePart `parser:"( ':' @@ )?"`
}

type versePart struct {
	Verse int  `parser:"@Int"`
	End   *int `parser:"( '-' @Int )?"`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a reference string. Supported forms:
//   - "2" (whole chapter)
//   - "2:255" (single verse)
//   - "2:1-5" (verse range)
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty reference string")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid reference format: %q: %w", s, err)
	}

	ref := &Ref{Chapter: parsed.Chapter}
	if parsed.VersePart != nil {
		ref.Verse = parsed.VersePart.Verse
		if parsed.VersePart.End != nil {
			ref.VerseEnd = *parsed.VersePart.End
		}
	}

	if ref.Chapter < 1 || ref.Chapter > TotalChapters {
		return nil, fmt.Errorf("chapter out of range in %q: %d", s, ref.Chapter)
	}
	if ref.VerseEnd > 0 && ref.VerseEnd < ref.Verse {
		return nil, fmt.Errorf("descending verse range in %q", s)
	}
	return ref, nil
}

// IsRange reports whether the reference spans multiple verses.
func (r *Ref) IsRange() bool {
	return r.VerseEnd > 0 && r.VerseEnd > r.Verse
}

// Contains reports whether the reference covers the given verse location.
func (r *Ref) Contains(chapter, verse int) bool {
	if r.Chapter != chapter {
		return false
	}
	if r.Verse == 0 {
		return true // whole-chapter reference
	}
	if r.IsRange() {
		return verse >= r.Verse && verse <= r.VerseEnd
	}
	return r.Verse == verse
}

// String renders the reference in its canonical "c:v-e" form.
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(r.Chapter))
	if r.Verse > 0 {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(r.Verse))
		if r.VerseEnd > 0 {
			sb.WriteString("-")
			sb.WriteString(strconv.Itoa(r.VerseEnd))
		}
	}
	return sb.String()
}
