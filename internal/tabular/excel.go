package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "catnorm/internal/errors"
)

// ReadExcel reads a table from a workbook on disk
func ReadExcel(path string, opts ReadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()
	return readWorkbook(path, f, opts)
}

// ReadExcelFrom reads a table from workbook bytes
func ReadExcelFrom(r io.Reader, name string, opts ReadOptions) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", name), err)
	}
	defer f.Close()
	return readWorkbook(name, f, opts)
}

func readWorkbook(name string, f *excelize.File, opts ReadOptions) (*Table, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s: workbook has no sheets", name), nil)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet %q in %s", sheet, name))
	}

	// GetRows trims trailing empty cells, which Table reads as absent
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return fromRows(name+"#"+sheet, rows, opts)
}
