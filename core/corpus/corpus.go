package corpus

import (
	"fmt"

	"github.com/talebmz/ayagraph/core/arabic"
	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
	"github.com/talebmz/ayagraph/internal/logging"
)

// Corpus is the orchestrating entry point: it loads all chapters, tokenizes
// every verse, and holds the definitive word list. A Corpus is constructed
// from a dataset directory and then built explicitly; every query before
// Build fails with qerrors.ErrNotBuilt.
//
// Build is all-or-nothing: a failure at any stage leaves the Corpus in its
// pre-build state with no partial word list.
type Corpus struct {
	loader   *Loader
	chapters []quran.Chapter
	words    []quran.Word
	built    bool
}

// NewCorpus validates the dataset directory and returns an unbuilt Corpus.
func NewCorpus(dataDir string) (*Corpus, error) {
	loader, err := NewLoader(dataDir)
	if err != nil {
		return nil, err
	}
	return &Corpus{loader: loader}, nil
}

// Built reports whether Build has completed successfully.
func (c *Corpus) Built() bool {
	return c.built
}

// Build loads all chapters and materializes the word list. Each verse is
// tokenized in order; each token becomes a Word with identity
// (chapter, verse, position), normalized text (default options), and
// Buckwalter transliteration. Root and lemma are left absent: no
// morphological analysis happens here.
func (c *Corpus) Build() error {
	chapters, err := c.loader.LoadAll(1, quran.TotalChapters)
	if err != nil {
		return fmt.Errorf("corpus build: %w", err)
	}

	var words []quran.Word
	for _, chapter := range chapters {
		for _, verse := range chapter.Verses {
			verseWords, err := buildVerseWords(verse)
			if err != nil {
				return fmt.Errorf("corpus build: %w", err)
			}
			words = append(words, verseWords...)
		}
	}

	c.chapters = chapters
	c.words = words
	c.built = true
	logging.Info("corpus built",
		"chapters", len(chapters),
		"verses", c.TotalVerses(),
		"words", len(words))
	return nil
}

// buildVerseWords tokenizes one verse and produces its Word records.
func buildVerseWords(verse quran.Verse) ([]quran.Word, error) {
	tokens := arabic.TokenizeWithPositions(verse.Text, arabic.DefaultDelimiter)
	words := make([]quran.Word, 0, len(tokens))

	for _, token := range tokens {
		normalized, err := arabic.NormalizeDefault(token.Text)
		if err != nil {
			return nil, fmt.Errorf("verse %d:%d word %d: %w", verse.Chapter, verse.Number, token.Position, err)
		}
		if normalized == "" {
			// Token was pure diacritics; keep the raw form so the word
			// stays addressable.
			normalized = token.Text
		}

		buckwalter := arabic.ToBuckwalter(token.Text)

		word, err := quran.NewWord(verse.Chapter, verse.Number, token.Position,
			token.Text, normalized, buckwalter, "", "")
		if err != nil {
			return nil, fmt.Errorf("verse %d:%d word %d: %w", verse.Chapter, verse.Number, token.Position, err)
		}
		words = append(words, word)
	}
	return words, nil
}

// Chapters returns all chapters in order.
func (c *Corpus) Chapters() ([]quran.Chapter, error) {
	if !c.built {
		return nil, qerrors.ErrNotBuilt
	}
	return c.chapters, nil
}

// Chapter returns the chapter with the given number.
func (c *Corpus) Chapter(number int) (quran.Chapter, error) {
	if !c.built {
		return quran.Chapter{}, qerrors.ErrNotBuilt
	}
	for _, chapter := range c.chapters {
		if chapter.Number == number {
			return chapter, nil
		}
	}
	return quran.Chapter{}, fmt.Errorf("chapter %d: %w", number, qerrors.ErrDataLoad)
}

// Verse returns one verse by chapter and verse number.
func (c *Corpus) Verse(chapter, verse int) (quran.Verse, error) {
	ch, err := c.Chapter(chapter)
	if err != nil {
		return quran.Verse{}, err
	}
	v, ok := ch.Verse(verse)
	if !ok {
		return quran.Verse{}, fmt.Errorf("verse %d:%d: %w", chapter, verse, qerrors.ErrDataLoad)
	}
	return v, nil
}

// Words returns the definitive word list.
func (c *Corpus) Words() ([]quran.Word, error) {
	if !c.built {
		return nil, qerrors.ErrNotBuilt
	}
	return c.words, nil
}

// Filter returns a fresh WordFilter seeded with all corpus words.
func (c *Corpus) Filter() (*WordFilter, error) {
	if !c.built {
		return nil, qerrors.ErrNotBuilt
	}
	return NewWordFilter(c.words), nil
}

// TotalChapters returns the number of loaded chapters.
func (c *Corpus) TotalChapters() int {
	return len(c.chapters)
}

// TotalVerses returns the number of verses across all chapters.
func (c *Corpus) TotalVerses() int {
	total := 0
	for _, chapter := range c.chapters {
		total += chapter.VerseCount()
	}
	return total
}

// TotalWords returns the size of the word list.
func (c *Corpus) TotalWords() int {
	return len(c.words)
}

// WordCountByChapter maps chapter number to its tokenized word count.
func (c *Corpus) WordCountByChapter() (map[int]int, error) {
	filter, err := c.Filter()
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(c.chapters))
	for _, chapter := range c.chapters {
		filtered, err := filter.ByChapter(chapter.Number)
		if err != nil {
			return nil, err
		}
		counts[chapter.Number] = filtered.Count()
	}
	return counts, nil
}

// String renders a short summary of the corpus state.
func (c *Corpus) String() string {
	if !c.built {
		return "Corpus(unbuilt)"
	}
	return fmt.Sprintf("Corpus(chapters=%d, verses=%d, words=%d)",
		c.TotalChapters(), c.TotalVerses(), c.TotalWords())
}
