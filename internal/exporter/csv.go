package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"catnorm/internal/services"
	"catnorm/internal/tabular"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	missingText string
	logger      *slog.Logger
}

// NewCSVWriter creates a writer that renders missing values as missingText
func NewCSVWriter(missingText string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		missingText: missingText,
		logger:      logger.With("component", "csv_writer"),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file, replacing any existing file
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := w.Encode(file, options); err != nil {
		return err
	}
	return file.Close()
}

// Encode writes options as CSV to out
func (w *CSVWriter) Encode(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFrame writes f with a BOM prefix
func (w *CSVWriter) WriteFrame(filePath string, f Frame) error {
	return w.WriteCSV(filePath, WriteOptions{Headers: f.Header, Records: f.Rows, BOMPrefix: true})
}

// WriteColumns writes the normalized columns. With a source table the other
// columns are kept and normalized ones are replaced in place.
func (w *CSVWriter) WriteColumns(filePath string, table *tabular.Table, results []services.ColumnResult) error {
	if table != nil {
		return w.WriteFrame(filePath, MergeFrame(table, results, w.missingText))
	}
	return w.WriteFrame(filePath, ColumnsFrame(results, w.missingText))
}

// WriteRejections writes the rejection report
func (w *CSVWriter) WriteRejections(filePath string, results []services.ColumnResult) error {
	return w.WriteFrame(filePath, RejectionsFrame(results))
}

// WriteSummary writes per-level counts
func (w *CSVWriter) WriteSummary(filePath string, results []services.ColumnResult) error {
	return w.WriteFrame(filePath, SummaryFrame(results))
}
