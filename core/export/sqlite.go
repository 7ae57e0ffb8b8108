package export

import (
	"database/sql"
	"fmt"

	"github.com/talebmz/ayagraph/core/qerrors"
	"github.com/talebmz/ayagraph/internal/logging"
	"github.com/talebmz/ayagraph/internal/sqlite"
)

// SQLite snapshot schema. The metadata table holds one row per header
// field, keyed by name.
const sqliteSchema = `
CREATE TABLE metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE chapters (
	number          INTEGER PRIMARY KEY,
	name            TEXT NOT NULL,
	english_name    TEXT,
	revelation_type TEXT,
	verse_count     INTEGER NOT NULL,
	word_count      INTEGER NOT NULL
);
CREATE TABLE words (
	chapter    INTEGER NOT NULL,
	verse      INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	text       TEXT NOT NULL,
	normalized TEXT NOT NULL,
	buckwalter TEXT NOT NULL,
	root       TEXT,
	lemma      TEXT,
	PRIMARY KEY (chapter, verse, position)
);
CREATE INDEX idx_words_normalized ON words(normalized);
CREATE INDEX idx_words_root ON words(root) WHERE root IS NOT NULL;
`

// WriteSQLite materializes a snapshot as a SQLite database at path. The
// file must not already exist.
func WriteSQLite(path string, snap *Snapshot) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return qerrors.Export(fmt.Errorf("opening database: %w", err))
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return qerrors.Export(fmt.Errorf("creating schema: %w", err))
	}

	tx, err := db.Begin()
	if err != nil {
		return qerrors.Export(fmt.Errorf("starting transaction: %w", err))
	}
	defer tx.Rollback()

	if err := insertMetadata(tx, snap.Metadata); err != nil {
		return err
	}
	if err := insertChapters(tx, snap.Chapters); err != nil {
		return err
	}
	if err := insertWords(tx, snap.Words); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return qerrors.Export(fmt.Errorf("committing snapshot: %w", err))
	}

	logging.ExportEvent("sqlite", path,
		"snapshot_id", snap.Metadata.SnapshotID,
		"driver", sqlite.DriverType())
	return nil
}

func insertMetadata(tx *sql.Tx, m Metadata) error {
	rows := [][2]string{
		{"format_version", m.FormatVersion},
		{"snapshot_id", m.SnapshotID},
		{"created_at", m.CreatedAt},
		{"total_chapters", fmt.Sprint(m.TotalChapters)},
		{"total_verses", fmt.Sprint(m.TotalVerses)},
		{"total_words", fmt.Sprint(m.TotalWords)},
	}
	for _, row := range rows {
		if _, err := tx.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)`, row[0], row[1]); err != nil {
			return qerrors.Export(fmt.Errorf("inserting metadata %s: %w", row[0], err))
		}
	}
	return nil
}

func insertChapters(tx *sql.Tx, chapters []ChapterSummary) error {
	stmt, err := tx.Prepare(`INSERT INTO chapters
		(number, name, english_name, revelation_type, verse_count, word_count)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return qerrors.Export(fmt.Errorf("preparing chapter insert: %w", err))
	}
	defer stmt.Close()

	for _, c := range chapters {
		if _, err := stmt.Exec(c.Number, c.Name, nullable(c.EnglishName),
			nullable(c.RevelationType), c.VerseCount, c.WordCount); err != nil {
			return qerrors.Export(fmt.Errorf("inserting chapter %d: %w", c.Number, err))
		}
	}
	return nil
}

func insertWords(tx *sql.Tx, words []WordRecord) error {
	stmt, err := tx.Prepare(`INSERT INTO words
		(chapter, verse, position, text, normalized, buckwalter, root, lemma)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return qerrors.Export(fmt.Errorf("preparing word insert: %w", err))
	}
	defer stmt.Close()

	for _, w := range words {
		if _, err := stmt.Exec(w.Chapter, w.Verse, w.Position, w.Text,
			w.Normalized, w.Buckwalter, nullable(w.Root), nullable(w.Lemma)); err != nil {
			return qerrors.Export(fmt.Errorf("inserting word %d:%d:%d: %w", w.Chapter, w.Verse, w.Position, err))
		}
	}
	return nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ReadSQLiteMetadata reads the metadata table from a SQLite snapshot.
func ReadSQLiteMetadata(path string) (map[string]string, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, qerrors.Export(fmt.Errorf("opening database: %w", err))
	}
	defer db.Close()

	rows, err := db.Query(`SELECT key, value FROM metadata`)
	if err != nil {
		return nil, qerrors.Export(fmt.Errorf("querying metadata: %w", err))
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, qerrors.Export(fmt.Errorf("scanning metadata: %w", err))
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, qerrors.Export(fmt.Errorf("reading metadata: %w", err))
	}
	return meta, nil
}
