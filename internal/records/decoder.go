package records

import "strings"

// Decode parses raw CSV text into records keyed by the header row.
//
// The decoder is deliberately lenient: the history exports are an
// append-only log that has drifted in format over the years, so the goal
// is to salvage every readable row rather than to validate. Supported
// beyond plain comma splitting:
//
//   - double-quote enclosed fields, including embedded commas and line
//     breaks
//   - escaped quotes via doubling ("" inside a quoted field)
//   - an unterminated quote at end of input is treated as implicitly
//     closed
//
// Physical lines that decode to nothing but empty fields are dropped.
// Input with zero or one line yields no records.
func Decode(text string) []Record {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil
	}

	header := lines[0]
	recs := make([]Record, 0, len(lines)-1)
	for _, fields := range lines[1:] {
		if allEmpty(fields) {
			continue
		}
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(fields) {
				rec[name] = fields[i]
			} else {
				rec[name] = ""
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

// splitLines scans the raw text into per-line field slices, honoring
// quoting. A newline inside a quoted field is field content, not a record
// separator.
func splitLines(text string) [][]string {
	var (
		out      [][]string
		fields   []string
		cur      strings.Builder
		inQuotes bool
		hasField bool
	)

	endField := func() {
		fields = append(fields, cur.String())
		cur.Reset()
		hasField = false
	}
	endLine := func() {
		endField()
		out = append(out, fields)
		fields = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuotes && c == '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = false
			}
		case inQuotes:
			cur.WriteRune(c)
		case c == '"' && cur.Len() == 0:
			inQuotes = true
			hasField = true
		case c == ',':
			endField()
		case c == '\r':
			// swallowed; the following \n (if any) ends the line
		case c == '\n':
			if len(fields) == 0 && cur.Len() == 0 && !hasField {
				continue // blank physical line between records
			}
			endLine()
		default:
			cur.WriteRune(c)
			hasField = true
		}
	}

	// Implicit close for a malformed trailing quote, implicit final
	// newline for a missing one.
	if len(fields) > 0 || cur.Len() > 0 || hasField {
		endLine()
	}

	return out
}

func allEmpty(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
