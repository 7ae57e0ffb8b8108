// Package tanzil reads the Tanzil XML distribution of the text and
// converts it to the per-chapter JSON dataset. The XML layout is a single
// document with sura elements carrying index and name attributes, and aya
// children carrying index and text attributes.
//
// Security: parsing goes through xmlquery, which uses Go's encoding/xml
// internally and does not fetch external entities.
package tanzil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
	"github.com/talebmz/ayagraph/internal/logging"
	"github.com/talebmz/ayagraph/internal/validation"
)

const (
	suraExpr = "//quran/sura"
	ayaExpr  = "aya"
)

// compile-time check that the query expressions are valid XPath.
var (
	_ = xpath.MustCompile(suraExpr)
	_ = xpath.MustCompile(ayaExpr)
)

// ReadFile parses a Tanzil XML file into chapters. The file's content is
// checked against its extension before parsing, so a compressed or binary
// payload renamed to .xml is rejected up front.
func ReadFile(path string) ([]quran.Chapter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &qerrors.LoadError{Path: path, Message: "cannot open XML file", Err: err}
	}
	defer f.Close()

	if _, err := validation.ValidateFileType(f, filepath.Base(path)); err != nil {
		return nil, &qerrors.LoadError{Path: path, Message: "unexpected file content", Err: err}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, &qerrors.LoadError{Path: path, Message: "cannot rewind XML file", Err: err}
	}

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, &qerrors.LoadError{Path: path, Message: "invalid XML", Err: err}
	}
	return readDocument(doc)
}

// readDocument walks the parsed tree and materializes chapters.
func readDocument(doc *xmlquery.Node) ([]quran.Chapter, error) {
	suras, err := xmlquery.QueryAll(doc, suraExpr)
	if err != nil {
		return nil, &qerrors.LoadError{Message: "sura query failed", Err: err}
	}
	if len(suras) == 0 {
		return nil, &qerrors.ValidationError{Field: "quran/sura", Message: "no sura elements found"}
	}

	chapters := make([]quran.Chapter, 0, len(suras))
	globalVerse := 0
	for _, sura := range suras {
		number, err := intAttr(sura, "index")
		if err != nil {
			return nil, fmt.Errorf("sura element: %w", err)
		}
		name := sura.SelectAttr("name")
		if name == "" {
			return nil, &qerrors.ValidationError{Field: "name", Message: fmt.Sprintf("sura %d missing name attribute", number)}
		}

		ayas, err := xmlquery.QueryAll(sura, ayaExpr)
		if err != nil {
			return nil, &qerrors.LoadError{Message: "aya query failed", Err: err}
		}

		verses := make([]quran.Verse, 0, len(ayas))
		for _, aya := range ayas {
			verseNum, err := intAttr(aya, "index")
			if err != nil {
				return nil, fmt.Errorf("sura %d aya element: %w", number, err)
			}
			text := aya.SelectAttr("text")
			if text == "" {
				return nil, &qerrors.ValidationError{Field: "text", Message: fmt.Sprintf("aya %d:%d missing text attribute", number, verseNum)}
			}
			globalVerse++
			v, err := quran.NewVerse(number, verseNum, text, globalVerse)
			if err != nil {
				return nil, fmt.Errorf("sura %d: %w", number, err)
			}
			verses = append(verses, v)
		}

		chapter, err := quran.NewChapter(number, name, verses, "", "")
		if err != nil {
			return nil, fmt.Errorf("sura %d: %w", number, err)
		}
		chapters = append(chapters, chapter)
	}
	return chapters, nil
}

// intAttr reads a required integer attribute.
func intAttr(node *xmlquery.Node, name string) (int, error) {
	raw := node.SelectAttr(name)
	if raw == "" {
		return 0, &qerrors.ValidationError{Field: name, Message: "missing attribute"}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &qerrors.ValidationError{Field: name, Message: fmt.Sprintf("not an integer: %q", raw), Err: err}
	}
	return value, nil
}

// chapterJSON is the canonical per-chapter document shape.
type chapterJSON struct {
	Number int         `json:"number"`
	Name   string      `json:"name"`
	Ayahs  []verseJSON `json:"ayahs"`
}

type verseJSON struct {
	NumberInSurah int    `json:"numberInSurah"`
	Text          string `json:"text"`
	Number        int    `json:"number,omitempty"`
}

// Convert reads a Tanzil XML file and writes one JSON document per chapter
// into outDir, creating the directory if needed. Returns the number of
// chapters written.
func Convert(xmlPath, outDir string) (int, error) {
	chapters, err := ReadFile(xmlPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, &qerrors.LoadError{Path: outDir, Message: "cannot create output directory", Err: err}
	}

	for _, chapter := range chapters {
		doc := chapterJSON{
			Number: chapter.Number,
			Name:   chapter.Name,
			Ayahs:  make([]verseJSON, 0, chapter.VerseCount()),
		}
		for _, v := range chapter.Verses {
			doc.Ayahs = append(doc.Ayahs, verseJSON{
				NumberInSurah: v.Number,
				Text:          v.Text,
				Number:        v.NumberInQuran,
			})
		}

		filename := fmt.Sprintf("surah_%d.json", chapter.Number)
		if err := validation.ValidateFilename(filename); err != nil {
			return 0, err
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("encoding chapter %d: %w", chapter.Number, err)
		}
		path := filepath.Join(outDir, filename)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return 0, &qerrors.LoadError{Path: path, Message: "cannot write chapter file", Err: err}
		}
	}

	logging.Info("tanzil conversion complete", "chapters", len(chapters), "out_dir", outDir)
	return len(chapters), nil
}
