package sheets

import "context"

// SheetsAPI defines the interface for interacting with Google Sheets.
//
// Note on interface{} usage: the Google Sheets API
// (google.golang.org/api/sheets/v4) uses [][]interface{} for cell values.
// That is outside our control; keep interface{} constrained to this
// boundary and never let it leak into the timeline packages.
type SheetsAPI interface {
	// UpdateRange updates values in a sheet range.
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error

	// ClearRange clears all values in a sheet range
	ClearRange(ctx context.Context, spreadsheetID, range_ string) error

	// CreateSheet creates a new sheet in the spreadsheet
	CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error

	// SheetExists checks if a sheet with the given name exists
	SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error)
}
