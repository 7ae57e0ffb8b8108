package corpus

import (
	"fmt"
	"strings"

	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
)

// WordFilter is an immutable, chainable query over a word sequence. Every
// filtering operation returns a new filter over the matching subset; the
// receiver is never mutated, so filters can be shared and branched freely.
type WordFilter struct {
	words []quran.Word
}

// NewWordFilter wraps a word sequence in a filter. The slice is not copied;
// corpus word lists are immutable by construction.
func NewWordFilter(words []quran.Word) *WordFilter {
	return &WordFilter{words: words}
}

func (f *WordFilter) keep(pred func(quran.Word) bool) *WordFilter {
	var filtered []quran.Word
	for _, w := range f.words {
		if pred(w) {
			filtered = append(filtered, w)
		}
	}
	return &WordFilter{words: filtered}
}

// ByChapter keeps words from the given chapter.
func (f *WordFilter) ByChapter(chapter int) (*WordFilter, error) {
	if chapter < 1 || chapter > quran.TotalChapters {
		return nil, qerrors.Filterf("invalid chapter number: %d", chapter)
	}
	return f.keep(func(w quran.Word) bool { return w.Chapter == chapter }), nil
}

// ByVerse keeps words from the given chapter and verse.
func (f *WordFilter) ByVerse(chapter, verse int) (*WordFilter, error) {
	if chapter < 1 || chapter > quran.TotalChapters {
		return nil, qerrors.Filterf("invalid chapter number: %d", chapter)
	}
	if verse < 1 {
		return nil, qerrors.Filterf("invalid verse number: %d", verse)
	}
	return f.keep(func(w quran.Word) bool {
		return w.Chapter == chapter && w.Verse == verse
	}), nil
}

// ByText keeps words whose text matches exactly. When normalized is true
// the match runs against the normalized form instead of the raw text.
func (f *WordFilter) ByText(text string, normalized bool) *WordFilter {
	return f.keep(func(w quran.Word) bool {
		if normalized {
			return w.Normalized == text
		}
		return w.Text == text
	})
}

// ByTextContains keeps words whose text contains the substring. When
// normalized is true the search runs against the normalized form.
func (f *WordFilter) ByTextContains(substring string, normalized bool) *WordFilter {
	return f.keep(func(w quran.Word) bool {
		if normalized {
			return strings.Contains(w.Normalized, substring)
		}
		return strings.Contains(w.Text, substring)
	})
}

// ByRoot keeps words annotated with the given morphological root.
func (f *WordFilter) ByRoot(root string) *WordFilter {
	return f.keep(func(w quran.Word) bool { return w.Root == root })
}

// ByLemma keeps words annotated with the given lemma.
func (f *WordFilter) ByLemma(lemma string) *WordFilter {
	return f.keep(func(w quran.Word) bool { return w.Lemma == lemma })
}

// ByCustom keeps words satisfying an arbitrary predicate. A panic inside
// the predicate is recovered and re-signaled as a filter error.
func (f *WordFilter) ByCustom(pred func(quran.Word) bool) (result *WordFilter, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = qerrors.Filter(fmt.Errorf("custom predicate panicked: %v", r))
		}
	}()
	return f.keep(pred), nil
}

// Get materializes the current word list.
func (f *WordFilter) Get() []quran.Word {
	return f.words
}

// Count returns the number of words in the current filter.
func (f *WordFilter) Count() int {
	return len(f.words)
}

// First returns the first word, or false on an empty filter.
func (f *WordFilter) First() (quran.Word, bool) {
	if len(f.words) == 0 {
		return quran.Word{}, false
	}
	return f.words[0], true
}

// Last returns the last word, or false on an empty filter.
func (f *WordFilter) Last() (quran.Word, bool) {
	if len(f.words) == 0 {
		return quran.Word{}, false
	}
	return f.words[len(f.words)-1], true
}
