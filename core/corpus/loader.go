// Package corpus loads the per-chapter JSON dataset and assembles the
// authoritative word-level model: load, validate, tokenize, normalize,
// transliterate. All produced values are immutable.
package corpus

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
	"github.com/talebmz/ayagraph/internal/validation"
)

// The loader reads the quranjson-style dataset: one JSON document per
// chapter, named surah_<n>.json. The canonical schema uses the keys
// number / name / ayahs, with numberInSurah / text per verse entry.
// Optional keys englishName, revelationType, and per-verse number (the
// global verse sequence) are passed through when present.

// chapterDocument is the raw shape of one chapter file. Pointer fields
// distinguish a missing key from a present-but-zero value.
type chapterDocument struct {
	Number         *int         `json:"number"`
	Name           *string      `json:"name"`
	EnglishName    string       `json:"englishName"`
	RevelationType string       `json:"revelationType"`
	Ayahs          []verseEntry `json:"ayahs"`
	hasAyahs       bool
}

type verseEntry struct {
	NumberInSurah *int    `json:"numberInSurah"`
	Text          *string `json:"text"`
	Number        int     `json:"number"` // global verse sequence, 0 = absent
}

// UnmarshalJSON records whether the ayahs key was present at all, so an
// absent key and an empty list produce distinct validation messages.
func (d *chapterDocument) UnmarshalJSON(data []byte) error {
	type alias chapterDocument
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, a.hasAyahs = keys["ayahs"]
	*d = chapterDocument(a)
	return nil
}

// Loader reads chapter documents from a dataset directory.
type Loader struct {
	dataDir string
}

// NewLoader validates the dataset directory and returns a Loader.
func NewLoader(dataDir string) (*Loader, error) {
	if err := validation.ValidatePath(dataDir); err != nil {
		return nil, &qerrors.LoadError{Path: dataDir, Message: "invalid data path", Err: err}
	}
	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, &qerrors.LoadError{Path: dataDir, Message: "data path does not exist", Err: err}
	}
	if !info.IsDir() {
		return nil, &qerrors.LoadError{Path: dataDir, Message: "data path is not a directory"}
	}
	return &Loader{dataDir: dataDir}, nil
}

// ChapterPath returns the file path for a chapter document. File naming is
// positional by chapter number, and the generated name is checked against
// the dataset directory before use.
func (l *Loader) ChapterPath(number int) (string, error) {
	name := fmt.Sprintf("surah_%d.json", number)
	if _, err := validation.SanitizePath(l.dataDir, name); err != nil {
		return "", &qerrors.LoadError{Path: name, Message: "unsafe chapter path", Err: err}
	}
	return filepath.Join(l.dataDir, name), nil
}

// LoadChapter reads, validates, and materializes one chapter.
func (l *Loader) LoadChapter(number int) (quran.Chapter, error) {
	if number < 1 || number > quran.TotalChapters {
		return quran.Chapter{}, &qerrors.LoadError{Message: fmt.Sprintf("invalid chapter number: %d", number)}
	}

	path, err := l.ChapterPath(number)
	if err != nil {
		return quran.Chapter{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return quran.Chapter{}, &qerrors.LoadError{Path: path, Message: "chapter file not found", Err: err}
		}
		return quran.Chapter{}, &qerrors.LoadError{Path: path, Message: "cannot read chapter file", Err: err}
	}

	var doc chapterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return quran.Chapter{}, &qerrors.LoadError{Path: path, Message: "invalid JSON", Err: err}
	}

	if err := validateDocument(&doc, number); err != nil {
		return quran.Chapter{}, fmt.Errorf("chapter %d: %w", number, err)
	}

	verses := make([]quran.Verse, 0, len(doc.Ayahs))
	for i, entry := range doc.Ayahs {
		v, err := quran.NewVerse(number, *entry.NumberInSurah, *entry.Text, entry.Number)
		if err != nil {
			return quran.Chapter{}, fmt.Errorf("chapter %d verse entry %d: %w", number, i, err)
		}
		verses = append(verses, v)
	}

	chapter, err := quran.NewChapter(number, *doc.Name, verses, doc.EnglishName, doc.RevelationType)
	if err != nil {
		return quran.Chapter{}, fmt.Errorf("chapter %d: %w", number, err)
	}
	return chapter, nil
}

// validateDocument checks required keys and the declared-number match.
func validateDocument(doc *chapterDocument, number int) error {
	if doc.Number == nil {
		return &qerrors.ValidationError{Field: "number", Message: "missing key"}
	}
	if doc.Name == nil {
		return &qerrors.ValidationError{Field: "name", Message: "missing key"}
	}
	if !doc.hasAyahs {
		return &qerrors.ValidationError{Field: "ayahs", Message: "missing key"}
	}
	if *doc.Number != number {
		return &qerrors.ValidationError{
			Field:   "number",
			Message: fmt.Sprintf("chapter number mismatch: expected %d, got %d", number, *doc.Number),
		}
	}
	if len(doc.Ayahs) == 0 {
		return &qerrors.ValidationError{Field: "ayahs", Message: "chapter must contain at least one verse"}
	}
	for i, entry := range doc.Ayahs {
		if entry.NumberInSurah == nil {
			return &qerrors.ValidationError{Field: "numberInSurah", Message: fmt.Sprintf("verse entry %d missing key", i)}
		}
		if entry.Text == nil {
			return &qerrors.ValidationError{Field: "text", Message: fmt.Sprintf("verse entry %d missing key", i)}
		}
	}
	return nil
}

// LoadAll loads an inclusive chapter range in ascending order. Any missing,
// malformed, or invalid document fails the whole operation.
func (l *Loader) LoadAll(start, end int) ([]quran.Chapter, error) {
	if start < 1 || start > quran.TotalChapters {
		return nil, &qerrors.LoadError{Message: fmt.Sprintf("invalid start chapter: %d", start)}
	}
	if end < 1 || end > quran.TotalChapters {
		return nil, &qerrors.LoadError{Message: fmt.Sprintf("invalid end chapter: %d", end)}
	}
	if start > end {
		return nil, &qerrors.LoadError{Message: fmt.Sprintf("start (%d) must be <= end (%d)", start, end)}
	}

	chapters := make([]quran.Chapter, 0, end-start+1)
	for n := start; n <= end; n++ {
		chapter, err := l.LoadChapter(n)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, nil
}

// InvalidChapter records one chapter that was present but failed validation.
type InvalidChapter struct {
	Number int    `json:"number"`
	Reason string `json:"reason"`
}

// VerifyReport is the result of a full dataset audit.
type VerifyReport struct {
	ValidChapters int              `json:"valid_chapters"`
	TotalVerses   int              `json:"total_verses"`
	Missing       []int            `json:"missing,omitempty"`
	Invalid       []InvalidChapter `json:"invalid,omitempty"`
	// Hashes maps chapter number to the BLAKE3 hash of its document, for
	// valid chapters only. Lets dataset drift be detected between audits.
	Hashes map[int]string `json:"hashes,omitempty"`
}

// Verify enumerates all chapters without aborting on failures, classifying
// each as valid, invalid (with a reason), or missing.
func (l *Loader) Verify() VerifyReport {
	report := VerifyReport{Hashes: make(map[int]string)}

	for n := 1; n <= quran.TotalChapters; n++ {
		path, err := l.ChapterPath(n)
		if err != nil {
			report.Invalid = append(report.Invalid, InvalidChapter{Number: n, Reason: err.Error()})
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				report.Missing = append(report.Missing, n)
			} else {
				report.Invalid = append(report.Invalid, InvalidChapter{Number: n, Reason: err.Error()})
			}
			continue
		}

		chapter, err := l.LoadChapter(n)
		if err != nil {
			report.Invalid = append(report.Invalid, InvalidChapter{Number: n, Reason: err.Error()})
			continue
		}

		report.ValidChapters++
		report.TotalVerses += chapter.VerseCount()
		sum := blake3.Sum256(data)
		report.Hashes[n] = hex.EncodeToString(sum[:])
	}
	return report
}

// Complete reports whether every chapter was present and valid.
func (r VerifyReport) Complete() bool {
	return r.ValidChapters == quran.TotalChapters
}
