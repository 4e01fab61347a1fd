package records

// Column names as they appear in the header row of a wr_history CSV export.
const (
	ColDate            = "date"
	ColRecordTime      = "record_time"
	ColPlayer          = "player"
	ColMap             = "map"
	ColRecordType      = "record_type"
	ColSegment         = "segment"
	ColEvidence        = "evidence"
	ColEvidenceSource  = "evidence_source"
	ColRunTime         = "run_time"
	ColSplit           = "split"
	ColImprovement     = "improvement"
	ColDemoID          = "demo_id"
	ColSteamID64       = "steam_id64"
	ColSteamID         = "steam_id"
	ColSteamCandidates = "steam_candidates"
)

// Evidence kinds describing the provenance of a record claim.
const (
	EvidenceRecord       = "record"
	EvidenceAnnouncement = "announcement"
	EvidenceCommand      = "command"
	EvidenceObserved     = "observed"
)

// SourceIRCSet marks announcements relayed from the authoritative IRC
// record-set feed.
const SourceIRCSet = "irc_set"

// Record is one decoded CSV row keyed by header name. Every declared column
// is present as a string; absent cells decode to "".
type Record map[string]string

// Row is the typed view of one decoded record. Index is the position in
// decode order and serves as the stable tie-break when dates collide.
// Rows are immutable once built; derivations produce new values.
type Row struct {
	Index           int
	Date            string
	RecordTime      string
	Player          string
	Map             string
	RecordType      string
	Segment         string
	Evidence        string
	EvidenceSource  string
	RunTime         string
	Split           string
	Improvement     string
	DemoID          string
	SteamID64       string
	SteamID         string
	SteamCandidates string
}

// RowFromRecord builds a typed Row from a decoded record at the given
// decode index.
func RowFromRecord(rec Record, index int) Row {
	return Row{
		Index:           index,
		Date:            rec[ColDate],
		RecordTime:      rec[ColRecordTime],
		Player:          rec[ColPlayer],
		Map:             rec[ColMap],
		RecordType:      rec[ColRecordType],
		Segment:         rec[ColSegment],
		Evidence:        rec[ColEvidence],
		EvidenceSource:  rec[ColEvidenceSource],
		RunTime:         rec[ColRunTime],
		Split:           rec[ColSplit],
		Improvement:     rec[ColImprovement],
		DemoID:          rec[ColDemoID],
		SteamID64:       rec[ColSteamID64],
		SteamID:         rec[ColSteamID],
		SteamCandidates: rec[ColSteamCandidates],
	}
}

// Rows decodes raw CSV text and returns the typed rows in decode order.
func Rows(text string) []Row {
	recs := Decode(text)
	rows := make([]Row, 0, len(recs))
	for i, rec := range recs {
		rows = append(rows, RowFromRecord(rec, i))
	}
	return rows
}

// HasDemo reports whether this row carries a usable demo reference.
// demo_id values on non-record evidence rows may be stale and must not be
// linked (see the export contract).
func (r Row) HasDemo() bool {
	return r.Evidence == EvidenceRecord && r.DemoID != ""
}
