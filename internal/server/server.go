package server

import (
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"wr_history/internal/app"
	"wr_history/internal/catalog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server serves the catalog, the raw history exports, and reconstructed
// timelines. It holds no per-selection state: every timeline request
// re-derives its response from the files on disk, so a rebuild of the
// catalog never invalidates anything.
type Server struct {
	cfg *app.Config

	mu  sync.RWMutex
	cat *catalog.Catalog
}

// New creates a server over the given catalog snapshot.
func New(cfg *app.Config, cat *catalog.Catalog) *Server {
	return &Server{cfg: cfg, cat: cat}
}

// SetCatalog swaps in a freshly built catalog. Called by the directory
// watcher.
func (s *Server) SetCatalog(cat *catalog.Catalog) {
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
}

func (s *Server) currentCatalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

// Router builds the HTTP routing table.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/catalog", s.handleCatalog)
	r.Get("/api/timeline", s.handleTimeline)
	r.Get("/data/{file}", s.handleDataFile)

	return r
}

// handleDataFile serves raw exports for consumers that want the CSV
// itself. Only catalog-shaped files are reachable; path traversal is cut
// off by serving basenames from the data directory only.
func (s *Server) handleDataFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "file"))
	if name != catalog.FileName && !strings.HasSuffix(name, ".csv") {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.DataDir, name))
}
