package zones

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind is the category of a sub-map zone. The declared order is the
// display rank: bonuses sort before courses, courses before segments.
type Kind int

const (
	KindBonus Kind = iota
	KindCourse
	KindSegment
)

// MarshalJSON renders the kind by name so consumers see "bonus", not 0.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(k.String())), nil
}

// UnmarshalJSON accepts the same by-name encoding.
func (k *Kind) UnmarshalJSON(data []byte) error {
	name, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	switch name {
	case "bonus":
		*k = KindBonus
	case "course":
		*k = KindCourse
	case "segment":
		*k = KindSegment
	default:
		return fmt.Errorf("unknown zone kind %q", name)
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case KindBonus:
		return "bonus"
	case KindCourse:
		return "course"
	case KindSegment:
		return "segment"
	}
	return "unknown"
}

// Zone describes one sub-map record timeline. ID is stable within a
// (map, class) dataset and doubles as filter key and sort key component.
type Zone struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	Order int    `json:"order"`
}

var (
	bonusPattern   = regexp.MustCompile(`(?i)^bonus\s*(\d+)$`)
	coursePattern  = regexp.MustCompile(`(?i)^course\s*(\d+)$`)
	namedPattern   = regexp.MustCompile(`(?i)^c(\d+)\s*-\s*(.+)$`)
	unnamedPattern = regexp.MustCompile(`(?i)^c(\d+)$`)
)

// Classify parses a free-text segment label into a zone descriptor.
// ok is false for text that does not name a sub-map zone; such rows belong
// to the whole-course timeline. Classification is pure and total: every
// input maps to exactly one outcome.
func Classify(segment string) (Zone, bool) {
	text := strings.TrimSpace(segment)

	if m := bonusPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Zone{
			ID:    fmt.Sprintf("bonus-%d", n),
			Label: fmt.Sprintf("Bonus %d", n),
			Kind:  KindBonus,
			Order: n,
		}, true
	}

	if m := coursePattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Zone{
			ID:    fmt.Sprintf("course-%d", n),
			Label: fmt.Sprintf("Course %d", n),
			Kind:  KindCourse,
			Order: n,
		}, true
	}

	if m := namedPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		name := strings.TrimSpace(m[2])
		// "First" is a capture artifact from the exporter, not part of
		// the segment name.
		name = strings.TrimSpace(strings.TrimSuffix(name, "First"))
		return Zone{
			ID:    fmt.Sprintf("segment-%d", n),
			Label: fmt.Sprintf("C%d - %s", n, name),
			Kind:  KindSegment,
			Order: n,
		}, true
	}

	if m := unnamedPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Zone{
			ID:    fmt.Sprintf("segment-%d", n),
			Label: fmt.Sprintf("C%d", n),
			Kind:  KindSegment,
			Order: n,
		}, true
	}

	return Zone{}, false
}

// Less is the display/selection ordering: kind rank first, then the
// extracted ordinal ascending.
func Less(a, b Zone) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Order < b.Order
}

// Sort orders zones in place per Less.
func Sort(zs []Zone) {
	sort.SliceStable(zs, func(i, j int) bool {
		return Less(zs[i], zs[j])
	})
}

// Collect classifies every segment label and returns the distinct zones
// observed, sorted. Labels that classify to no zone contribute nothing.
func Collect(segments []string) []Zone {
	seen := make(map[string]Zone)
	for _, s := range segments {
		z, ok := Classify(s)
		if !ok {
			continue
		}
		if _, dup := seen[z.ID]; !dup {
			seen[z.ID] = z
		}
	}

	out := make([]Zone, 0, len(seen))
	for _, z := range seen {
		out = append(out, z)
	}
	Sort(out)
	return out
}
