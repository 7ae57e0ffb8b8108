package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/talebmz/ayagraph/core/corpus"
	"github.com/talebmz/ayagraph/core/export"
	"github.com/talebmz/ayagraph/core/quran"
)

func writeChapterFixture(t *testing.T, dir string, n int, verses ...string) {
	t.Helper()
	type ayah struct {
		NumberInSurah int    `json:"numberInSurah"`
		Text          string `json:"text"`
	}
	ayahs := make([]ayah, len(verses))
	for i, text := range verses {
		ayahs[i] = ayah{NumberInSurah: i + 1, Text: text}
	}
	doc := map[string]any{"number": n, "name": fmt.Sprintf("سورة %d", n), "ayahs": ayahs}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("surah_%d.json", n)), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	for n := 1; n <= quran.TotalChapters; n++ {
		writeChapterFixture(t, dir, n, "بِسْمِ اللَّهِ", "الْحَمْدُ لِلَّهِ")
	}
	c, err := corpus.NewCorpus(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Build(); err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{Port: 0}, c)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// doRequest runs one request through the full handler chain and decodes
// the response wrapper.
func doRequest(t *testing.T, s *Server, method, target string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, resp
}

func TestNewRequiresBuiltCorpus(t *testing.T) {
	dir := t.TempDir()
	writeChapterFixture(t, dir, 1, "نص")
	c, err := corpus.NewCorpus(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{}, c); err == nil {
		t.Error("New accepted an unbuilt corpus")
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)
	rec, resp := doRequest(t, s, http.MethodGet, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !resp.Success {
		t.Fatal("Success = false")
	}

	data, _ := json.Marshal(resp.Data)
	var health HealthInfo
	if err := json.Unmarshal(data, &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
	if health.Chapters != quran.TotalChapters {
		t.Errorf("Chapters = %d, want %d", health.Chapters, quran.TotalChapters)
	}
}

func TestHandleHealthMethodNotAllowed(t *testing.T) {
	s := testServer(t)
	rec, resp := doRequest(t, s, http.MethodPost, "/health")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if resp.Success || resp.Error == nil {
		t.Error("error response expected")
	}
}

func TestHandleChapters(t *testing.T) {
	s := testServer(t)
	rec, resp := doRequest(t, s, http.MethodGet, "/chapters")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Meta == nil || resp.Meta.Total != quran.TotalChapters {
		t.Errorf("Meta.Total = %v, want %d", resp.Meta, quran.TotalChapters)
	}
}

func TestHandleChapterByNumber(t *testing.T) {
	s := testServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/chapters/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var payload struct {
		Chapter ChapterInfo `json:"chapter"`
		Verses  []VerseInfo `json:"verses"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Chapter.Number != 2 {
		t.Errorf("chapter number = %d, want 2", payload.Chapter.Number)
	}
	if len(payload.Verses) != 2 {
		t.Errorf("verses = %d, want 2", len(payload.Verses))
	}

	rec, _ = doRequest(t, s, http.MethodGet, "/chapters/999")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown chapter status = %d, want 404", rec.Code)
	}

	rec, _ = doRequest(t, s, http.MethodGet, "/chapters/abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad chapter status = %d, want 400", rec.Code)
	}
}

func TestHandleVerses(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantTotal  int
	}{
		{"single verse", "/verses?ref=2:1", http.StatusOK, 1},
		{"range", "/verses?ref=2:1-2", http.StatusOK, 2},
		{"whole chapter", "/verses?ref=3", http.StatusOK, 2},
		{"missing ref", "/verses", http.StatusBadRequest, 0},
		{"bad ref", "/verses?ref=abc", http.StatusBadRequest, 0},
		{"verse out of range", "/verses?ref=2:99", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, s, http.MethodGet, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantTotal > 0 && (resp.Meta == nil || resp.Meta.Total != tt.wantTotal) {
				t.Errorf("Meta.Total = %v, want %d", resp.Meta, tt.wantTotal)
			}
		})
	}
}

func TestHandleWords(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantTotal  int
	}{
		{"by chapter", "/words?chapter=1", http.StatusOK, 4},
		{"by verse", "/words?chapter=1&verse=1", http.StatusOK, 2},
		{"by text", "/words?text=بِسْمِ", http.StatusOK, quran.TotalChapters},
		{"by normalized text", "/words?text=بسم&normalized=true", http.StatusOK, quran.TotalChapters},
		{"no match", "/words?text=نور", http.StatusOK, 0},
		{"invalid chapter", "/words?chapter=0", http.StatusBadRequest, 0},
		{"non-numeric chapter", "/words?chapter=xyz", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, s, http.MethodGet, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Code == http.StatusOK {
				total := 0
				if resp.Meta != nil {
					total = resp.Meta.Total
				}
				if total != tt.wantTotal {
					t.Errorf("Meta.Total = %d, want %d", total, tt.wantTotal)
				}
			}
		})
	}
}

func TestHandleStats(t *testing.T) {
	s := testServer(t)
	rec, resp := doRequest(t, s, http.MethodGet, "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data, _ := json.Marshal(resp.Data)
	var stats StatsInfo
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Words != quran.TotalChapters*4 {
		t.Errorf("Words = %d, want %d", stats.Words, quran.TotalChapters*4)
	}
	if len(stats.WordCountByChapter) != quran.TotalChapters {
		t.Errorf("WordCountByChapter entries = %d, want %d", len(stats.WordCountByChapter), quran.TotalChapters)
	}
}

func TestHandleExport(t *testing.T) {
	s := testServer(t)

	t.Run("full snapshot", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var snap export.Snapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("body is not a snapshot: %v", err)
		}
		if snap.Metadata.TotalChapters != quran.TotalChapters {
			t.Errorf("TotalChapters = %d, want %d", snap.Metadata.TotalChapters, quran.TotalChapters)
		}
		if snap.Metadata.SnapshotID == "" {
			t.Error("snapshot id missing")
		}
	})

	t.Run("single chapter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export?chapter=2", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var snap export.Snapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("body is not a snapshot: %v", err)
		}
		if snap.Metadata.TotalChapters != 1 {
			t.Errorf("TotalChapters = %d, want 1", snap.Metadata.TotalChapters)
		}
	})

	t.Run("unknown chapter", func(t *testing.T) {
		rec, resp := doRequest(t, s, http.MethodGet, "/export?chapter=999")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if resp.Success || resp.Error == nil {
			t.Error("error response expected")
		}
	})

	t.Run("non-numeric chapter", func(t *testing.T) {
		rec, _ := doRequest(t, s, http.MethodGet, "/export?chapter=abc")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec, _ := doRequest(t, s, http.MethodPost, "/export")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestHandleRootUnknownPath(t *testing.T) {
	s := testServer(t)
	rec, _ := doRequest(t, s, http.MethodGet, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSecurityHeadersPresent(t *testing.T) {
	s := testServer(t)
	rec, _ := doRequest(t, s, http.MethodGet, "/health")

	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'",
	}
	for key, want := range headers {
		if got := rec.Header().Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}
