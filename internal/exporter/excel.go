package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"catnorm/internal/services"
	"catnorm/internal/tabular"
)

// Workbook sheet names
const (
	SheetData       = "data"
	SheetLevels     = "levels"
	SheetSummary    = "summary"
	SheetRejections = "rejections"
)

// ExcelWriter writes normalization results into a workbook
type ExcelWriter struct {
	missingText string
	logger      *slog.Logger
}

// NewExcelWriter creates a writer that renders missing values as missingText
func NewExcelWriter(missingText string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{
		missingText: missingText,
		logger:      logger.With("component", "excel_writer"),
	}
}

// Write creates filePath with data, levels, summary and rejections sheets.
// table may be nil, in which case the data sheet holds only the normalized
// columns.
func (w *ExcelWriter) Write(filePath string, table *tabular.Table, results []services.ColumnResult) error {
	data := ColumnsFrame(results, w.missingText)
	if table != nil {
		data = MergeFrame(table, results, w.missingText)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	sheets := []struct {
		name  string
		frame Frame
	}{
		{SheetData, data},
		{SheetLevels, LevelsFrame(results)},
		{SheetSummary, SummaryFrame(results)},
		{SheetRejections, RejectionsFrame(results)},
	}
	for _, s := range sheets {
		if s.name != SheetData {
			if _, err := f.NewSheet(s.name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
			}
		}
		if err := writeSheet(f, s.name, s.frame); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.String("file_path", filePath),
		slog.Int("columns", len(results)),
		slog.Int("rows", len(data.Rows)))
	return nil
}

// writeSheet streams frame rows into sheet. Cells are written as strings so
// labels such as "007" keep their text.
func writeSheet(f *excelize.File, sheet string, frame Frame) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream for sheet %s: %w", sheet, err)
	}

	rows := append([][]string{frame.Header}, frame.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i+1, sheet, err)
		}
	}
	return sw.Flush()
}
