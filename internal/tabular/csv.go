package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "catnorm/internal/errors"
)

const utf8BOM = "\uFEFF"

// ReadCSVFile reads a table from a CSV file on disk
func ReadCSVFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()
	return ReadCSV(f, path, opts)
}

// ReadCSV reads a table from comma-separated text. A leading UTF-8 byte
// order mark is dropped and ragged rows are allowed.
func ReadCSV(r io.Reader, name string, opts ReadOptions) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read CSV %s", name), err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return fromRows(name, rows, opts)
}
