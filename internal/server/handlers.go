package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talebmz/ayagraph/core/corpus"
	"github.com/talebmz/ayagraph/core/export"
	"github.com/talebmz/ayagraph/core/quran"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Chapters int    `json:"chapters"`
	Verses   int    `json:"verses"`
	Words    int    `json:"words"`
}

// ChapterInfo describes one chapter without verse bodies.
type ChapterInfo struct {
	Number         int    `json:"number"`
	Name           string `json:"name"`
	EnglishName    string `json:"english_name,omitempty"`
	RevelationType string `json:"revelation_type,omitempty"`
	VerseCount     int    `json:"verse_count"`
}

// VerseInfo describes one verse.
type VerseInfo struct {
	Chapter       int    `json:"chapter"`
	Number        int    `json:"number"`
	Text          string `json:"text"`
	NumberInQuran int    `json:"number_in_quran,omitempty"`
}

// WordInfo describes one word.
type WordInfo struct {
	Chapter    int    `json:"chapter"`
	Verse      int    `json:"verse"`
	Position   int    `json:"position"`
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
	Buckwalter string `json:"buckwalter"`
	Root       string `json:"root,omitempty"`
	Lemma      string `json:"lemma,omitempty"`
}

// StatsInfo is the corpus statistics response.
type StatsInfo struct {
	Chapters           int         `json:"chapters"`
	Verses             int         `json:"verses"`
	Words              int         `json:"words"`
	WordCountByChapter map[int]int `json:"word_count_by_chapter"`
}

var startTime = time.Now()

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "ayagraph API",
		"version": Version,
		"endpoints": []string{
			"GET /health",
			"GET /chapters",
			"GET /chapters/:number",
			"GET /verses?ref=",
			"GET /words",
			"GET /stats",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	respond(w, http.StatusOK, HealthInfo{
		Status:   "healthy",
		Version:  Version,
		Uptime:   time.Since(startTime).String(),
		Chapters: s.corpus.TotalChapters(),
		Verses:   s.corpus.TotalVerses(),
		Words:    s.corpus.TotalWords(),
	})
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	chapters, err := s.corpus.Chapters()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CORPUS_ERROR", err.Error())
		return
	}

	infos := make([]ChapterInfo, 0, len(chapters))
	for _, c := range chapters {
		infos = append(infos, chapterInfo(c))
	}
	respondWithTotal(w, http.StatusOK, infos, len(infos))
}

func (s *Server) handleChapterByNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/chapters/")
	number, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_CHAPTER", "Chapter number must be an integer")
		return
	}

	chapter, err := s.corpus.Chapter(number)
	if err != nil {
		respondError(w, http.StatusNotFound, "CHAPTER_NOT_FOUND", err.Error())
		return
	}

	verses := make([]VerseInfo, 0, chapter.VerseCount())
	for _, v := range chapter.Verses {
		verses = append(verses, verseInfo(v))
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"chapter": chapterInfo(chapter),
		"verses":  verses,
	})
}

func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	refParam := r.URL.Query().Get("ref")
	if refParam == "" {
		respondError(w, http.StatusBadRequest, "MISSING_REF", "Query parameter ref is required (e.g. 2:255 or 2:1-5)")
		return
	}

	ref, err := quran.ParseRef(refParam)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REF", err.Error())
		return
	}

	chapter, err := s.corpus.Chapter(ref.Chapter)
	if err != nil {
		respondError(w, http.StatusNotFound, "CHAPTER_NOT_FOUND", err.Error())
		return
	}

	var verses []VerseInfo
	for _, v := range chapter.Verses {
		if ref.Contains(v.Chapter, v.Number) {
			verses = append(verses, verseInfo(v))
		}
	}
	if len(verses) == 0 {
		respondError(w, http.StatusNotFound, "VERSE_NOT_FOUND", "No verses match the reference")
		return
	}
	respondWithTotal(w, http.StatusOK, verses, len(verses))
}

// maxWordResults caps /words responses to keep payloads bounded.
const maxWordResults = 1000

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	filter, err := s.corpus.Filter()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CORPUS_ERROR", err.Error())
		return
	}

	filter, err = applyWordQuery(filter, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	words := filter.Get()
	total := len(words)
	if total > maxWordResults {
		words = words[:maxWordResults]
	}

	infos := make([]WordInfo, 0, len(words))
	for _, word := range words {
		infos = append(infos, WordInfo{
			Chapter:    word.Chapter,
			Verse:      word.Verse,
			Position:   word.Position,
			Text:       word.Text,
			Normalized: word.Normalized,
			Buckwalter: word.Buckwalter,
			Root:       word.Root,
			Lemma:      word.Lemma,
		})
	}
	respondWithTotal(w, http.StatusOK, infos, total)
}

// applyWordQuery translates query parameters into a filter chain.
func applyWordQuery(filter *corpus.WordFilter, r *http.Request) (*corpus.WordFilter, error) {
	q := r.URL.Query()

	if raw := q.Get("chapter"); raw != "" {
		chapter, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		if raw := q.Get("verse"); raw != "" {
			verse, err := strconv.Atoi(raw)
			if err != nil {
				return nil, err
			}
			return filter.ByVerse(chapter, verse)
		}
		filter, err = filter.ByChapter(chapter)
		if err != nil {
			return nil, err
		}
	}

	normalized := q.Get("normalized") == "true"
	if text := q.Get("text"); text != "" {
		filter = filter.ByText(text, normalized)
	}
	if substring := q.Get("contains"); substring != "" {
		filter = filter.ByTextContains(substring, normalized)
	}
	if root := q.Get("root"); root != "" {
		filter = filter.ByRoot(root)
	}
	if lemma := q.Get("lemma"); lemma != "" {
		filter = filter.ByLemma(lemma)
	}
	return filter, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	counts, err := s.corpus.WordCountByChapter()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CORPUS_ERROR", err.Error())
		return
	}

	respond(w, http.StatusOK, StatsInfo{
		Chapters:           s.corpus.TotalChapters(),
		Verses:             s.corpus.TotalVerses(),
		Words:              s.corpus.TotalWords(),
		WordCountByChapter: counts,
	})
}

// handleExport builds a snapshot on demand and streams it back as a plain
// JSON document, reporting progress to the WebSocket hub. An optional
// chapter query parameter restricts the snapshot to one chapter.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	exporter := export.NewExporter(s.corpus)
	var (
		snap *export.Snapshot
		err  error
	)
	if raw := r.URL.Query().Get("chapter"); raw != "" {
		number, convErr := strconv.Atoi(raw)
		if convErr != nil {
			respondError(w, http.StatusBadRequest, "INVALID_CHAPTER", "Chapter must be a number")
			return
		}
		s.hub.BroadcastProgress("export", "building", fmt.Sprintf("building chapter %d snapshot", number), 10)
		snap, err = exporter.BuildChapterSnapshot(number)
		if err != nil {
			s.hub.BroadcastError("export", err.Error())
			respondError(w, http.StatusNotFound, "EXPORT_FAILED", err.Error())
			return
		}
	} else {
		s.hub.BroadcastProgress("export", "building", "building corpus snapshot", 10)
		snap, err = exporter.BuildSnapshot()
		if err != nil {
			s.hub.BroadcastError("export", err.Error())
			respondError(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := export.WriteJSON(w, snap); err != nil {
		s.hub.BroadcastError("export", err.Error())
		return
	}
	s.hub.BroadcastComplete("export", "snapshot built", map[string]interface{}{
		"snapshot_id": snap.Metadata.SnapshotID,
		"chapters":    snap.Metadata.TotalChapters,
		"words":       snap.Metadata.TotalWords,
	})
}

func chapterInfo(c quran.Chapter) ChapterInfo {
	return ChapterInfo{
		Number:         c.Number,
		Name:           c.Name,
		EnglishName:    c.EnglishName,
		RevelationType: c.RevelationType,
		VerseCount:     c.VerseCount(),
	}
}

func verseInfo(v quran.Verse) VerseInfo {
	return VerseInfo{
		Chapter:       v.Chapter,
		Number:        v.Number,
		Text:          v.Text,
		NumberInQuran: v.NumberInQuran,
	}
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondWithTotal(w http.ResponseWriter, status int, data interface{}, total int) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
