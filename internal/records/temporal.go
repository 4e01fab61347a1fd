package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing the date column. The export
// format has drifted between plain dates and full timestamps.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
}

// ParseDate parses the date column. ok is false when no known layout
// matches; such rows cannot participate in a temporal ordering.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseRunTime parses a formatted duration of the form [H:]MM:SS.ff into
// seconds. ok is false for anything else.
func ParseRunTime(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	var hours int
	if len(parts) == 3 {
		h, err := strconv.Atoi(parts[0])
		if err != nil || h < 0 {
			return 0, false
		}
		hours = h
		parts = parts[1:]
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0, false
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}

// FormatRunTime renders seconds back into the [H:]MM:SS.ff display form.
// The hour component is omitted when zero, matching the export format.
func FormatRunTime(total float64) string {
	if total < 0 {
		total = 0
	}
	total = math.Round(total*100) / 100
	hours := int(total) / 3600
	rem := total - float64(hours)*3600
	minutes := int(rem) / 60
	seconds := rem - float64(minutes)*60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%05.2f", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%05.2f", minutes, seconds)
}
