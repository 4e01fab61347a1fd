package timeline

import (
	"sort"
	"time"

	"wr_history/internal/records"

	"github.com/rs/zerolog/log"
)

// Epsilon is the comparison tolerance for record durations. Formatted
// times round-trip through centisecond precision, so two values within
// Epsilon are equal, never one improving over the other.
const Epsilon = 1e-4

// Point is one informative event on a reconstructed record timeline:
// either an improvement or a retroactive correction. Points are created
// only by Reconstruct and are immutable once produced.
type Point struct {
	Row     records.Row
	Date    time.Time
	Seconds float64

	// Wiped marks a point that was presented as the record at the time
	// but that a later correction proved was never valid. Wiped points
	// are retained for display (struck through), never deleted.
	Wiped bool

	// WipedBoundary marks the correction itself: an authoritative
	// re-announcement slower than the best time known before it.
	WipedBoundary bool
}

// TriggerPolicy decides which rows are authoritative enough to declare
// earlier history invalid. The evidence taxonomy upstream grows over
// time, so the policy is a value, not a hard-coded rule.
type TriggerPolicy func(records.Row) bool

// DefaultTriggerPolicy trusts demo-verified records and announcements
// relayed from the IRC record-set feed.
func DefaultTriggerPolicy(row records.Row) bool {
	switch row.Evidence {
	case records.EvidenceRecord:
		return true
	case records.EvidenceAnnouncement:
		return row.EvidenceSource == records.SourceIRCSet
	}
	return false
}

// Reconstruct consumes rows already narrowed to one (map, class, segment)
// selection and produces the authoritative current-record-at-time-T
// sequence. Rows with an unparseable date or duration are dropped; the
// rest are ordered by date with decode index as the tie-break, then walked
// forward keeping improvements and trigger-flagged regressions, and
// finally annotated backward with wipe status.
//
// The result is non-decreasing in date and idempotent: reconstructing a
// reconstruction changes nothing.
func Reconstruct(rows []records.Row, policy TriggerPolicy) []Point {
	if policy == nil {
		policy = DefaultTriggerPolicy
	}

	points := parseValid(rows)
	sort.SliceStable(points, func(i, j int) bool {
		if !points[i].Date.Equal(points[j].Date) {
			return points[i].Date.Before(points[j].Date)
		}
		return points[i].Row.Index < points[j].Row.Index
	})

	emitted := forwardPass(points, policy)
	annotateWipes(emitted)
	return emitted
}

// parseValid converts rows into candidate points, silently excluding any
// row that cannot participate in a temporal ordering.
func parseValid(rows []records.Row) []Point {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		date, ok := records.ParseDate(row.Date)
		if !ok {
			log.Debug().
				Int("row_index", row.Index).
				Str("date", row.Date).
				Msg("Dropping row with unparseable date")
			continue
		}
		seconds, ok := records.ParseRunTime(row.RecordTime)
		if !ok {
			log.Debug().
				Int("row_index", row.Index).
				Str("record_time", row.RecordTime).
				Msg("Dropping row with unparseable record time")
			continue
		}
		points = append(points, Point{Row: row, Date: date, Seconds: seconds})
	}
	return points
}

// forwardPass walks the ordered candidates once, tracking the current
// best time. Improvements are always kept. A non-improving row is kept
// only when the trigger policy marks it authoritative and its time is
// strictly worse than the current best; that point is the boundary
// revealing that earlier entries were wiped.
func forwardPass(points []Point, policy TriggerPolicy) []Point {
	var (
		emitted []Point
		best    float64
		seeded  bool
	)

	for _, p := range points {
		if !seeded {
			emitted = append(emitted, p)
			best = p.Seconds
			seeded = true
			continue
		}

		if p.Seconds < best-Epsilon {
			emitted = append(emitted, p)
			best = p.Seconds
			continue
		}

		if policy(p.Row) && p.Seconds > best+Epsilon {
			p.WipedBoundary = true
			emitted = append(emitted, p)
			best = p.Seconds
		}
		// Anything else carries no new information once a faster time
		// exists.
	}

	return emitted
}

// annotateWipes scans right to left tracking the slowest boundary time
// seen so far. An improvement faster than that maximum was disproved by
// the correction and is marked wiped. The opening point of the sequence
// only seeds the running best and never claimed an improvement, so it is
// exempt.
func annotateWipes(points []Point) {
	maxBoundary := 0.0
	haveBoundary := false

	for i := len(points) - 1; i >= 0; i-- {
		p := &points[i]
		if p.WipedBoundary {
			if !haveBoundary || p.Seconds > maxBoundary {
				maxBoundary = p.Seconds
				haveBoundary = true
			}
			continue
		}
		if i > 0 && haveBoundary && p.Seconds < maxBoundary-Epsilon {
			p.Wiped = true
		}
	}
}
