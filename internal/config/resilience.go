package config

import "time"

// Tunables for the I/O boundaries. The core reconstruction is pure and
// needs none of this; only the archive fetcher, the sheet exporter, and
// the catalog watcher touch the outside world.
const (
	// Archive fetch configuration. Fetches are single-shot: a failed
	// fetch surfaces as "no data" and is never retried automatically.
	ArchiveFetchTimeout = 30 * time.Second

	// Sheet export retry configuration
	SheetExportMaxAttempts       = 3
	SheetExportInitialWait       = 1 * time.Second
	SheetExportMaxWait           = 10 * time.Second
	SheetExportBackoffMultiplier = 2.0
	SheetExportTimeout           = 30 * time.Second

	// WatcherDebounce batches bursts of data-directory events into one
	// catalog rebuild.
	WatcherDebounce = 500 * time.Millisecond
)

// RetryConfig defines retry behavior for operations
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// DefaultSheetExportRetry is the retry policy for spreadsheet writes.
var DefaultSheetExportRetry = RetryConfig{
	MaxAttempts: SheetExportMaxAttempts,
	InitialWait: SheetExportInitialWait,
	MaxWait:     SheetExportMaxWait,
	Multiplier:  SheetExportBackoffMultiplier,
	Timeout:     SheetExportTimeout,
}

// NextWait returns the wait before the following attempt, capped at
// MaxWait.
func (c RetryConfig) NextWait(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * c.Multiplier)
	if next > c.MaxWait {
		return c.MaxWait
	}
	return next
}
