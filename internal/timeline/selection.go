package timeline

import (
	"net/url"
	"strings"

	"wr_history/internal/records"
	"wr_history/internal/zones"
)

// ViewMode selects between the whole-course timeline and a sub-map zone
// timeline.
type ViewMode string

const (
	// ViewCourse is the whole-course ("Map") timeline.
	ViewCourse ViewMode = "course"
	// ViewZone is a bonus/course/segment timeline.
	ViewZone ViewMode = "zone"
)

// Selection is the user's current (map, class, view, zone) choice. It is
// an explicit immutable value threaded into every derivation; nothing
// reads selection state from globals. ZoneID may be empty in zone view,
// in which case the lowest-ranked zone observed in the dataset is implied.
type Selection struct {
	Map    string
	Class  string
	View   ViewMode
	ZoneID string
}

// Fragment encodes the selection as address-fragment key-value pairs so a
// selection is shareable and bookmarkable. Keys appear in a fixed order;
// whole-course selections omit view and zone.
func (s Selection) Fragment() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+url.QueryEscape(value))
		}
	}
	add("map", s.Map)
	add("class", s.Class)
	if s.View == ViewZone {
		add("view", string(s.View))
		add("zone", s.ZoneID)
	}
	return strings.Join(parts, "&")
}

// ParseFragment decodes a fragment produced by Fragment. Unknown keys are
// ignored; an absent view implies the whole-course mode.
func ParseFragment(fragment string) Selection {
	sel := Selection{View: ViewCourse}
	for _, pair := range strings.Split(fragment, "&") {
		key, raw, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		value, err := url.QueryUnescape(raw)
		if err != nil {
			value = raw
		}
		switch key {
		case "map":
			sel.Map = value
		case "class":
			sel.Class = value
		case "view":
			if ViewMode(value) == ViewZone {
				sel.View = ViewZone
			}
		case "zone":
			sel.ZoneID = value
		}
	}
	return sel
}

// ZoneSet returns the distinct zones observed across the full row set,
// independent of the current selection. It backs the zone picker and must
// be re-derived whenever the row set changes.
func ZoneSet(rows []records.Row) []zones.Zone {
	segments := make([]string, 0, len(rows))
	for _, row := range rows {
		segments = append(segments, row.Segment)
	}
	return zones.Collect(segments)
}

// Filter narrows the full row set to the rows relevant to the selection,
// preserving decode order. Whole-course mode keeps rows whose segment
// names no zone; zone mode keeps classified rows, narrowed to the chosen
// zone, or to the lowest-ranked zone when none is chosen yet.
func Filter(rows []records.Row, sel Selection) []records.Row {
	if sel.View != ViewZone {
		var out []records.Row
		for _, row := range rows {
			if _, ok := zones.Classify(row.Segment); !ok {
				out = append(out, row)
			}
		}
		return out
	}

	zoneID := sel.ZoneID
	if zoneID == "" {
		if zs := ZoneSet(rows); len(zs) > 0 {
			zoneID = zs[0].ID
		}
	}

	var out []records.Row
	for _, row := range rows {
		z, ok := zones.Classify(row.Segment)
		if !ok {
			continue
		}
		if zoneID == "" || z.ID == zoneID {
			out = append(out, row)
		}
	}
	return out
}
