package tabular

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "catnorm/internal/errors"
)

// SheetsReader reads tables from Google Sheets ranges
type SheetsReader struct {
	service *sheets.Service
	logger  *slog.Logger
}

// NewSheetsReader creates a Sheets API client. Credentials come from opts,
// e.g. option.WithCredentialsFile.
func NewSheetsReader(ctx context.Context, logger *slog.Logger, opts ...option.ClientOption) (*SheetsReader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsReader{
		service: service,
		logger:  logger.With("component", "sheets_reader"),
	}, nil
}

// Read fetches readRange (A1 notation, e.g. "Survey!A1:F200") and builds a
// table from the formatted cell values.
func (r *SheetsReader) Read(ctx context.Context, spreadsheetID, readRange string, opts ReadOptions) (*Table, error) {
	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read spreadsheet range",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("range", readRange),
			slog.String("error", err.Error()))
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read range %s", readRange), err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = fmt.Sprint(cell)
		}
	}

	r.logger.DebugContext(ctx, "Spreadsheet range read",
		slog.String("range", resp.Range),
		slog.Int("rows", len(rows)))
	return fromRows(spreadsheetID+"#"+readRange, rows, opts)
}
