// Package export serializes corpus data into portable snapshots: plain
// JSON, xz-compressed JSON, and SQLite databases. Every snapshot carries a
// versioned metadata header with a unique id and creation timestamp.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"

	"github.com/talebmz/ayagraph/core/corpus"
	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/core/quran"
	"github.com/talebmz/ayagraph/internal/logging"
	"github.com/talebmz/ayagraph/internal/validation"
)

// FormatVersion identifies the snapshot schema. Consumers must reject
// major-version mismatches.
const FormatVersion = "1.0.0"

// Metadata is the header carried by every snapshot.
type Metadata struct {
	FormatVersion string `json:"format_version"`
	SnapshotID    string `json:"snapshot_id"`
	CreatedAt     string `json:"created_at"`
	TotalChapters int    `json:"total_chapters"`
	TotalVerses   int    `json:"total_verses"`
	TotalWords    int    `json:"total_words"`
}

// WordRecord is the serialized form of one word. Root and lemma are
// omitted when absent.
type WordRecord struct {
	Chapter    int    `json:"chapter"`
	Verse      int    `json:"verse"`
	Position   int    `json:"position"`
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
	Buckwalter string `json:"buckwalter"`
	Root       string `json:"root,omitempty"`
	Lemma      string `json:"lemma,omitempty"`
}

// ChapterSummary is the serialized form of one chapter without word detail.
type ChapterSummary struct {
	Number         int    `json:"number"`
	Name           string `json:"name"`
	EnglishName    string `json:"english_name,omitempty"`
	RevelationType string `json:"revelation_type,omitempty"`
	VerseCount     int    `json:"verse_count"`
	WordCount      int    `json:"word_count"`
}

// Snapshot is the full serialized corpus.
type Snapshot struct {
	Metadata Metadata         `json:"metadata"`
	Chapters []ChapterSummary `json:"chapters"`
	Words    []WordRecord     `json:"words"`
}

// newMetadata stamps a fresh snapshot header.
func newMetadata(chapters, verses, words int) Metadata {
	return Metadata{
		FormatVersion: FormatVersion,
		SnapshotID:    uuid.New().String(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		TotalChapters: chapters,
		TotalVerses:   verses,
		TotalWords:    words,
	}
}

// wordRecord converts one word to its serialized form.
func wordRecord(w quran.Word) WordRecord {
	return WordRecord{
		Chapter:    w.Chapter,
		Verse:      w.Verse,
		Position:   w.Position,
		Text:       w.Text,
		Normalized: w.Normalized,
		Buckwalter: w.Buckwalter,
		Root:       w.Root,
		Lemma:      w.Lemma,
	}
}

// Exporter produces snapshots from a built corpus.
type Exporter struct {
	corpus *corpus.Corpus
}

// NewExporter wraps a corpus. The corpus must be built before any export
// call.
func NewExporter(c *corpus.Corpus) *Exporter {
	return &Exporter{corpus: c}
}

// BuildSnapshot assembles the full in-memory snapshot.
func (e *Exporter) BuildSnapshot() (*Snapshot, error) {
	chapters, err := e.corpus.Chapters()
	if err != nil {
		return nil, qerrors.Export(err)
	}
	words, err := e.corpus.Words()
	if err != nil {
		return nil, qerrors.Export(err)
	}
	counts, err := e.corpus.WordCountByChapter()
	if err != nil {
		return nil, qerrors.Export(err)
	}

	snap := &Snapshot{
		Metadata: newMetadata(len(chapters), e.corpus.TotalVerses(), len(words)),
		Chapters: make([]ChapterSummary, 0, len(chapters)),
		Words:    make([]WordRecord, 0, len(words)),
	}
	for _, c := range chapters {
		snap.Chapters = append(snap.Chapters, ChapterSummary{
			Number:         c.Number,
			Name:           c.Name,
			EnglishName:    c.EnglishName,
			RevelationType: c.RevelationType,
			VerseCount:     c.VerseCount(),
			WordCount:      counts[c.Number],
		})
	}
	for _, w := range words {
		snap.Words = append(snap.Words, wordRecord(w))
	}
	return snap, nil
}

// BuildChapterSnapshot assembles a snapshot restricted to one chapter.
func (e *Exporter) BuildChapterSnapshot(number int) (*Snapshot, error) {
	chapter, err := e.corpus.Chapter(number)
	if err != nil {
		return nil, qerrors.Export(err)
	}
	filter, err := e.corpus.Filter()
	if err != nil {
		return nil, qerrors.Export(err)
	}
	byChapter, err := filter.ByChapter(number)
	if err != nil {
		return nil, qerrors.Export(err)
	}
	words := byChapter.Get()

	snap := &Snapshot{
		Metadata: newMetadata(1, chapter.VerseCount(), len(words)),
		Chapters: []ChapterSummary{{
			Number:         chapter.Number,
			Name:           chapter.Name,
			EnglishName:    chapter.EnglishName,
			RevelationType: chapter.RevelationType,
			VerseCount:     chapter.VerseCount(),
			WordCount:      len(words),
		}},
		Words: make([]WordRecord, 0, len(words)),
	}
	for _, w := range words {
		snap.Words = append(snap.Words, wordRecord(w))
	}
	return snap, nil
}

// BuildWordsSnapshot assembles a snapshot over an arbitrary word list,
// typically the result of a filter chain. Chapter summaries are omitted.
func (e *Exporter) BuildWordsSnapshot(words []quran.Word) (*Snapshot, error) {
	if !e.corpus.Built() {
		return nil, qerrors.Export(qerrors.ErrNotBuilt)
	}
	chapters := make(map[int]bool)
	verses := make(map[string]bool)
	for _, w := range words {
		chapters[w.Chapter] = true
		verses[fmt.Sprintf("%d:%d", w.Chapter, w.Verse)] = true
	}

	snap := &Snapshot{
		Metadata: newMetadata(len(chapters), len(verses), len(words)),
		Words:    make([]WordRecord, 0, len(words)),
	}
	for _, w := range words {
		snap.Words = append(snap.Words, wordRecord(w))
	}
	return snap, nil
}

// WriteJSON writes a snapshot as indented JSON.
func WriteJSON(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return qerrors.Export(fmt.Errorf("encoding snapshot: %w", err))
	}
	return nil
}

// WriteXZ writes a snapshot as xz-compressed JSON.
func WriteXZ(w io.Writer, snap *Snapshot) error {
	xzw, err := xz.NewWriter(w)
	if err != nil {
		return qerrors.Export(fmt.Errorf("creating xz writer: %w", err))
	}
	if err := WriteJSON(xzw, snap); err != nil {
		xzw.Close()
		return err
	}
	if err := xzw.Close(); err != nil {
		return qerrors.Export(fmt.Errorf("closing xz stream: %w", err))
	}
	return nil
}

// ReadSnapshot reads a snapshot from plain or xz-compressed JSON, choosing
// by filename extension. The file's content is checked against the
// extension before decoding.
func ReadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, qerrors.Export(fmt.Errorf("opening snapshot: %w", err))
	}
	defer f.Close()

	if _, err := validation.ValidateFileType(f, filepath.Base(path)); err != nil {
		return nil, qerrors.Export(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, qerrors.Export(fmt.Errorf("rewinding snapshot: %w", err))
	}

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, qerrors.Export(fmt.Errorf("reading xz stream: %w", err))
		}
		r = xzr
	}

	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, qerrors.Export(fmt.Errorf("decoding snapshot: %w", err))
	}
	if snap.Metadata.FormatVersion == "" {
		return nil, qerrors.Export(fmt.Errorf("snapshot missing format version"))
	}
	return &snap, nil
}

// WriteFile writes a snapshot to a path, compressing when the name ends in
// .xz. The path and filename component are validated first.
func WriteFile(path string, snap *Snapshot) error {
	if err := validation.ValidatePath(path); err != nil {
		return qerrors.Export(err)
	}
	if err := validation.ValidateFilename(filepath.Base(path)); err != nil {
		return qerrors.Export(err)
	}

	f, err := os.Create(path)
	if err != nil {
		return qerrors.Export(fmt.Errorf("creating snapshot file: %w", err))
	}
	defer f.Close()

	if strings.HasSuffix(path, ".xz") {
		err = WriteXZ(f, snap)
	} else {
		err = WriteJSON(f, snap)
	}
	if err != nil {
		return err
	}

	format := "json"
	if strings.HasSuffix(path, ".xz") {
		format = "json.xz"
	}
	logging.ExportEvent(format, path, "snapshot_id", snap.Metadata.SnapshotID)
	return nil
}
