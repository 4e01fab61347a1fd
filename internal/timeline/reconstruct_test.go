package timeline

import (
	"testing"

	"wr_history/internal/records"
)

func makeRow(index int, date, recordTime, evidence, source string) records.Row {
	return records.Row{
		Index:          index,
		Date:           date,
		RecordTime:     recordTime,
		Evidence:       evidence,
		EvidenceSource: source,
	}
}

func TestReconstructWipeScenario(t *testing.T) {
	// A later authoritative re-announcement slower than the known best
	// reveals that the intervening improvement was wiped.
	rows := []records.Row{
		makeRow(0, "2019-01-01", "01:00.00", records.EvidenceRecord, ""),
		makeRow(1, "2019-01-02", "00:55.00", records.EvidenceRecord, ""),
		makeRow(2, "2019-01-03", "01:05.00", records.EvidenceAnnouncement, records.SourceIRCSet),
	}

	pts := Reconstruct(rows, nil)
	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}

	want := []struct {
		seconds       float64
		wiped         bool
		wipedBoundary bool
	}{
		{60, false, false},
		{55, true, false},
		{65, false, true},
	}
	for i, w := range want {
		p := pts[i]
		if p.Seconds != w.seconds {
			t.Errorf("point %d: seconds = %f, want %f", i, p.Seconds, w.seconds)
		}
		if p.Wiped != w.wiped {
			t.Errorf("point %d: wiped = %v, want %v", i, p.Wiped, w.wiped)
		}
		if p.WipedBoundary != w.wipedBoundary {
			t.Errorf("point %d: wipedBoundary = %v, want %v", i, p.WipedBoundary, w.wipedBoundary)
		}
	}
}

func TestReconstructDropsNonImprovements(t *testing.T) {
	rows := []records.Row{
		makeRow(0, "2019-01-01", "01:00.00", records.EvidenceRecord, ""),
		makeRow(1, "2019-01-02", "01:10.00", records.EvidenceObserved, ""),
		makeRow(2, "2019-01-03", "01:00.00", records.EvidenceCommand, ""),
		makeRow(3, "2019-01-04", "00:50.00", records.EvidenceObserved, ""),
	}

	pts := Reconstruct(rows, nil)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points (seed + improvement), got %d", len(pts))
	}
	if pts[1].Seconds != 50 {
		t.Errorf("expected final best 50s, got %f", pts[1].Seconds)
	}
}

func TestReconstructNonTriggerRegressionDropped(t *testing.T) {
	// A slower announcement from an untrusted source is noise, not a
	// correction.
	rows := []records.Row{
		makeRow(0, "2019-01-01", "01:00.00", records.EvidenceRecord, ""),
		makeRow(1, "2019-01-02", "01:10.00", records.EvidenceAnnouncement, "chat_log"),
	}

	pts := Reconstruct(rows, nil)
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
}

func TestReconstructCustomPolicy(t *testing.T) {
	trustEverything := func(records.Row) bool { return true }

	rows := []records.Row{
		makeRow(0, "2019-01-01", "01:00.00", records.EvidenceObserved, ""),
		makeRow(1, "2019-01-02", "01:10.00", records.EvidenceObserved, ""),
	}

	pts := Reconstruct(rows, trustEverything)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points under permissive policy, got %d", len(pts))
	}
	if !pts[1].WipedBoundary {
		t.Error("expected second point to be a wipe boundary")
	}
}

func TestReconstructDropsUnparseableRows(t *testing.T) {
	rows := []records.Row{
		makeRow(0, "not a date", "01:00.00", records.EvidenceRecord, ""),
		makeRow(1, "2019-01-02", "fast", records.EvidenceRecord, ""),
		makeRow(2, "2019-01-03", "00:58.00", records.EvidenceRecord, ""),
	}

	pts := Reconstruct(rows, nil)
	if len(pts) != 1 {
		t.Fatalf("expected 1 valid point, got %d", len(pts))
	}
	if pts[0].Seconds != 58 {
		t.Errorf("expected 58s, got %f", pts[0].Seconds)
	}
}

func TestReconstructEmptyInput(t *testing.T) {
	if pts := Reconstruct(nil, nil); len(pts) != 0 {
		t.Errorf("expected empty timeline, got %d points", len(pts))
	}
}

func TestReconstructDateTieBrokenByDecodeOrder(t *testing.T) {
	rows := []records.Row{
		makeRow(1, "2019-01-01", "00:55.00", records.EvidenceRecord, ""),
		makeRow(0, "2019-01-01", "01:00.00", records.EvidenceRecord, ""),
	}

	pts := Reconstruct(rows, nil)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Row.Index != 0 || pts[1].Row.Index != 1 {
		t.Errorf("expected decode-order tie break, got indices %d, %d", pts[0].Row.Index, pts[1].Row.Index)
	}
}

func TestReconstructEpsilonTreatsNearEqualAsTie(t *testing.T) {
	rows := []records.Row{
		makeRow(0, "2019-01-01", "01:00.00", records.EvidenceRecord, ""),
		// Within tolerance of the current best: neither an improvement
		// nor a boundary.
		makeRow(1, "2019-01-02", "01:00.00", records.EvidenceRecord, ""),
	}

	pts := Reconstruct(rows, nil)
	if len(pts) != 1 {
		t.Fatalf("expected tie to be dropped, got %d points", len(pts))
	}
}

func TestReconstructPostBoundaryImprovementNotWiped(t *testing.T) {
	// Improvements set after a correction belong to the new era and are
	// not invalidated by it.
	rows := []records.Row{
		makeRow(0, "2019-01-01", "01:40.00", records.EvidenceRecord, ""),
		makeRow(1, "2019-01-02", "01:00.00", records.EvidenceRecord, ""),
		makeRow(2, "2019-01-03", "01:30.00", records.EvidenceAnnouncement, records.SourceIRCSet),
		makeRow(3, "2019-01-04", "01:10.00", records.EvidenceRecord, ""),
	}

	pts := Reconstruct(rows, nil)
	if len(pts) != 4 {
		t.Fatalf("expected 4 points, got %d", len(pts))
	}
	if !pts[1].Wiped {
		t.Error("expected pre-boundary improvement to be wiped")
	}
	if !pts[2].WipedBoundary {
		t.Error("expected third point to be the boundary")
	}
	if pts[3].Wiped {
		t.Error("post-boundary improvement must not be wiped")
	}
}

func TestReconstructIdempotent(t *testing.T) {
	rows := []records.Row{
		makeRow(0, "2019-01-01", "01:00.00", records.EvidenceRecord, ""),
		makeRow(1, "2019-01-02", "00:55.00", records.EvidenceRecord, ""),
		makeRow(2, "2019-01-03", "01:05.00", records.EvidenceAnnouncement, records.SourceIRCSet),
		makeRow(3, "2019-01-04", "00:54.00", records.EvidenceRecord, ""),
	}

	first := Reconstruct(rows, nil)

	rerun := make([]records.Row, 0, len(first))
	for _, p := range first {
		rerun = append(rerun, p.Row)
	}
	second := Reconstruct(rerun, nil)

	if len(first) != len(second) {
		t.Fatalf("idempotence violated: %d vs %d points", len(first), len(second))
	}
	for i := range first {
		if first[i].Seconds != second[i].Seconds ||
			first[i].Wiped != second[i].Wiped ||
			first[i].WipedBoundary != second[i].WipedBoundary {
			t.Errorf("point %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
