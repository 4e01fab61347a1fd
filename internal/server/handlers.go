package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"wr_history/internal/catalog"
	"wr_history/internal/identity"
	"wr_history/internal/records"
	"wr_history/internal/timeline"
	"wr_history/internal/zones"

	"github.com/rs/zerolog/log"
)

// TimelinePoint is the JSON shape of one reconstructed record event.
type TimelinePoint struct {
	Date          time.Time            `json:"date"`
	Seconds       float64              `json:"seconds"`
	RecordTime    string               `json:"recordTime"`
	Player        string               `json:"player"`
	Evidence      string               `json:"evidence"`
	ProfileURL    string               `json:"profileUrl,omitempty"`
	Candidates    []identity.Candidate `json:"candidates,omitempty"`
	DemoID        string               `json:"demoId,omitempty"`
	Wiped         bool                 `json:"wiped"`
	WipedBoundary bool                 `json:"wipedBoundary"`
}

// TimelineResponse is the full answer for one selection: the points that
// drive chart and table, the zone set that populates the picker, and the
// shareable fragment for the selection.
type TimelineResponse struct {
	Map      string          `json:"map"`
	Class    string          `json:"class"`
	View     string          `json:"view"`
	Zone     string          `json:"zone,omitempty"`
	Fragment string          `json:"fragment"`
	Zones    []zones.Zone    `json:"zones"`
	Points   []TimelinePoint `json:"points"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.currentCatalog()
	if cat == nil {
		// No catalog yet is an empty state, not a failure.
		cat = &catalog.Catalog{GeneratedAt: time.Now().UTC(), Maps: []catalog.Entry{}}
	}
	writeJSON(w, cat)
}

// handleTimeline reconstructs the record timeline for the selection in
// the query string. Unknown maps, missing files, and malformed rows all
// degrade to an empty timeline; nothing here is fatal.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := timeline.Selection{
		Map:    q.Get("map"),
		Class:  q.Get("class"),
		View:   timeline.ViewCourse,
		ZoneID: q.Get("zone"),
	}
	if q.Get("view") == string(timeline.ViewZone) {
		sel.View = timeline.ViewZone
	}

	rows := s.loadRows(sel.Map, sel.Class)
	zoneSet := timeline.ZoneSet(rows)
	points := timeline.Reconstruct(timeline.Filter(rows, sel), nil)

	resp := TimelineResponse{
		Map:      sel.Map,
		Class:    sel.Class,
		View:     string(sel.View),
		Zone:     sel.ZoneID,
		Fragment: sel.Fragment(),
		Zones:    zoneSet,
		Points:   make([]TimelinePoint, 0, len(points)),
	}
	for _, p := range points {
		resp.Points = append(resp.Points, toJSONPoint(p))
	}

	writeJSON(w, resp)
}

// loadRows reads and decodes the export for a (map, class) pair. Any
// failure yields no rows: the viewer renders "no data" rather than an
// error page.
func (s *Server) loadRows(mapName, class string) []records.Row {
	cat := s.currentCatalog()
	if cat == nil || mapName == "" || class == "" {
		return nil
	}

	file := cat.Lookup(mapName, class)
	if file == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(s.cfg.DataDir, filepath.Base(file)))
	if err != nil {
		log.Warn().
			Err(err).
			Str("map", mapName).
			Str("class", class).
			Msg("Failed to read history export")
		return nil
	}
	return records.Rows(string(data))
}

func toJSONPoint(p timeline.Point) TimelinePoint {
	out := TimelinePoint{
		Date:          p.Date,
		Seconds:       p.Seconds,
		RecordTime:    records.FormatRunTime(p.Seconds),
		Player:        p.Row.Player,
		Evidence:      p.Row.Evidence,
		ProfileURL:    identity.ProfileFor(p.Row.SteamID64, p.Row.SteamID),
		Candidates:    identity.ParseCandidates(p.Row.SteamCandidates),
		Wiped:         p.Wiped,
		WipedBoundary: p.WipedBoundary,
	}
	// demo_id on non-record evidence may be stale; never link it.
	if p.Row.HasDemo() {
		out.DemoID = p.Row.DemoID
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
