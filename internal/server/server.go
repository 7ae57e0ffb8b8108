// Package server provides the REST API over a built corpus, with a
// WebSocket channel for long-running operation progress.
package server

import (
	"fmt"
	"net/http"

	"github.com/talebmz/ayagraph/core/corpus"
	"github.com/talebmz/ayagraph/internal/logging"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Config holds server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// Server serves corpus queries over HTTP.
type Server struct {
	cfg    Config
	corpus *corpus.Corpus
	hub    *Hub
}

// New builds a server over a corpus. The corpus must already be built;
// serving an unbuilt corpus fails fast.
func New(cfg Config, c *corpus.Corpus) (*Server, error) {
	if !c.Built() {
		return nil, fmt.Errorf("server requires a built corpus")
	}
	return &Server{cfg: cfg, corpus: c, hub: NewHub()}, nil
}

// Hub exposes the WebSocket hub for progress broadcasting.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler assembles the full middleware chain around the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/chapters", s.handleChapters)
	mux.HandleFunc("/chapters/", s.handleChapterByNumber)
	mux.HandleFunc("/verses", s.handleVerses)
	mux.HandleFunc("/words", s.handleWords)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/ws", s.handleWebSocket)

	var handler http.Handler = SecurityHeadersWithCSP(APICSPConfig(), mux)
	handler = CORSMiddlewareWithConfig(CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}, handler)
	handler = logging.CombinedMiddleware(handler)
	return handler
}

// Start runs the hub loop and blocks serving HTTP.
func (s *Server) Start() error {
	go s.hub.Run()

	if len(s.cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.cfg.AllowedOrigins))
	} else {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "permissive",
			"note", "allowing all origins (*)")
	}
	logging.ServerStartup("rest_api", "http", s.cfg.Port,
		"chapters", s.corpus.TotalChapters(),
		"words", s.corpus.TotalWords())

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	return http.ListenAndServe(addr, s.Handler())
}
