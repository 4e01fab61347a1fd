package sheets

import (
	"context"
	"fmt"
	"time"

	"wr_history/internal/config"
	"wr_history/internal/records"
	"wr_history/internal/timeline"

	"github.com/rs/zerolog/log"
)

// Exporter publishes reconstructed timelines to a spreadsheet, one tab
// per selection.
type Exporter struct {
	api   SheetsAPI
	retry config.RetryConfig
}

// NewExporter creates an exporter over the given API client.
func NewExporter(api SheetsAPI) *Exporter {
	return &Exporter{
		api:   api,
		retry: config.DefaultSheetExportRetry,
	}
}

// timelineHeader is the first row of every exported tab.
var timelineHeader = []interface{}{
	"Date", "Record Time", "Seconds", "Player", "Evidence", "Demo", "Wiped", "Wipe Boundary",
}

// TabName derives the sheet tab name for a selection.
func TabName(sel timeline.Selection) string {
	name := fmt.Sprintf("%s %s", sel.Map, sel.Class)
	if sel.View == timeline.ViewZone && sel.ZoneID != "" {
		name += " " + sel.ZoneID
	}
	return name
}

// Export writes the points for one selection into its tab, replacing any
// previous contents. Transient API failures are retried with backoff.
func (e *Exporter) Export(ctx context.Context, spreadsheetID string, sel timeline.Selection, points []timeline.Point) error {
	tab := TabName(sel)

	exists, err := e.api.SheetExists(ctx, spreadsheetID, tab)
	if err != nil {
		return fmt.Errorf("failed to check sheet existence: %w", err)
	}
	if !exists {
		if err := e.api.CreateSheet(ctx, spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}

	values := BuildRows(points)

	rangeSpec := fmt.Sprintf("'%s'!A1:H", tab)
	if err := e.api.ClearRange(ctx, spreadsheetID, rangeSpec); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	if err := e.updateWithRetry(ctx, spreadsheetID, rangeSpec, values); err != nil {
		return err
	}

	log.Info().
		Str("tab", tab).
		Int("points", len(points)).
		Msg("Exported timeline to spreadsheet")

	return nil
}

// BuildRows renders points into sheet values, header row first. Demo
// references follow the export contract: only record evidence may link a
// demo.
func BuildRows(points []timeline.Point) [][]interface{} {
	values := make([][]interface{}, 0, len(points)+1)
	values = append(values, timelineHeader)

	for _, p := range points {
		demo := ""
		if p.Row.HasDemo() {
			demo = p.Row.DemoID
		}
		values = append(values, []interface{}{
			p.Date.Format("2006-01-02 15:04:05"),
			records.FormatRunTime(p.Seconds),
			p.Seconds,
			p.Row.Player,
			p.Row.Evidence,
			demo,
			p.Wiped,
			p.WipedBoundary,
		})
	}

	return values
}

func (e *Exporter) updateWithRetry(ctx context.Context, spreadsheetID, rangeSpec string, values [][]interface{}) error {
	wait := e.retry.InitialWait

	var lastErr error
	for attempt := 1; attempt <= e.retry.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, e.retry.Timeout)
		lastErr = e.api.UpdateRange(attemptCtx, spreadsheetID, rangeSpec, values)
		cancel()

		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Msg("Sheet update failed")

		if attempt < e.retry.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait = e.retry.NextWait(wait)
		}
	}

	return fmt.Errorf("sheet update failed after %d attempts: %w", e.retry.MaxAttempts, lastErr)
}
