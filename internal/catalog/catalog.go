package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// FileName is the catalog file written next to the history exports.
const FileName = "catalog.json"

// historyFilePattern matches per-map history exports:
// wr_history_<map>_<Demo|Solly>.csv
var historyFilePattern = regexp.MustCompile(`^wr_history_(.+)_(Demo|Solly)\.csv$`)

// Entry groups the per-class export files for one map.
type Entry struct {
	Map     string            `json:"map"`
	Classes []string          `json:"classes"`
	Files   map[string]string `json:"files"`
}

// Catalog is the JSON index consumed by viewers: every known map with the
// classes available for it and the relative file path per class.
type Catalog struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Count       int       `json:"count"`
	Maps        []Entry   `json:"maps"`
}

// Lookup returns the relative CSV path for a (map, class) pair, or "".
func (c *Catalog) Lookup(mapName, class string) string {
	for _, e := range c.Maps {
		if e.Map == mapName {
			return e.Files[class]
		}
	}
	return ""
}

// Build scans dir for history exports and groups them into a catalog.
// Maps are sorted lexicographically by name and each class list is sorted.
// Unreadable directories yield an error; stray files are ignored.
func Build(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	byMap := make(map[string]map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := historyFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		mapName, class := m[1], m[2]
		if byMap[mapName] == nil {
			byMap[mapName] = make(map[string]string)
		}
		byMap[mapName][class] = entry.Name()
	}

	maps := make([]Entry, 0, len(byMap))
	for mapName, files := range byMap {
		classes := make([]string, 0, len(files))
		for class := range files {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		maps = append(maps, Entry{Map: mapName, Classes: classes, Files: files})
	}
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].Map < maps[j].Map
	})

	cat := &Catalog{
		GeneratedAt: time.Now().UTC(),
		Count:       len(maps),
		Maps:        maps,
	}

	log.Debug().
		Int("maps", cat.Count).
		Str("dir", dir).
		Msg("Built catalog from data directory")

	return cat, nil
}

// Write renders the catalog as JSON into dir/catalog.json.
func (c *Catalog) Write(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("maps", c.Count).
		Msg("Wrote catalog file")

	return nil
}

// Load reads a previously written catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return &cat, nil
}
