package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "catnorm/internal/errors"
	"catnorm/internal/shared/testutil"
	"catnorm/internal/validation"
)

func TestReadCSV(t *testing.T) {
	input := "\uFEFFid,smoker,grade\n1,Y,low\n2,N\n3,,high\n"

	table, err := ReadCSV(strings.NewReader(input), "survey.csv", ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "smoker", "grade"}, table.Header)
	assert.Equal(t, 3, table.Len())
	assert.True(t, table.Has("grade"))

	smoker, err := table.Column("smoker")
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "N", ""}, testutil.Deref(smoker))

	grade, err := table.Column("grade")
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "<nil>", "high"}, testutil.Deref(grade))
}

func TestReadCSV_Skip(t *testing.T) {
	input := "Survey export\ngenerated 2024-01-01\nsmoker\nY\n"
	table, err := ReadCSV(strings.NewReader(input), "s.csv", ReadOptions{Skip: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"smoker"}, table.Header)
	assert.Equal(t, [][]string{{"Y"}}, table.Rows)

	_, err = ReadCSV(strings.NewReader(input), "s.csv", ReadOptions{Skip: 4})
	assert.ErrorContains(t, err, "no header row")
}

func TestNewTable_HeaderErrors(t *testing.T) {
	_, err := NewTable("t", []string{"a", "a"}, nil)
	assert.ErrorContains(t, err, `duplicate header "a"`)

	_, err = NewTable("t", []string{"a", ""}, nil)
	assert.ErrorContains(t, err, "header cell 2 is empty")
}

func TestTable_ColumnNotFound(t *testing.T) {
	table, err := NewTable("t", []string{"a"}, nil)
	require.NoError(t, err)

	_, err = table.Column("b")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}

func TestTable_Distinct(t *testing.T) {
	table, err := NewTable("t", []string{"a", "b"}, [][]string{
		{"x", "1"}, {"y"}, {"x"}, {"", "2"}, {"   ", "3"}, {"\t"}, {" x"}, {"z"},
	})
	require.NoError(t, err)

	got, err := table.Distinct("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", " x", "z"}, got)
}

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadExcel(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"id", "smoker"},
		{1, "Y"},
		{2},
		{3, "n"},
	})

	table, err := ReadExcel(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "smoker"}, table.Header)

	smoker, err := table.Column("smoker")
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "<nil>", "n"}, testutil.Deref(smoker))
}

func TestReadExcel_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Responses", [][]interface{}{
		{"title row"},
		{"smoker"},
		{"N"},
	})

	table, err := ReadExcel(path, ReadOptions{Sheet: "Responses", Skip: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"smoker"}, table.Header)
	assert.Equal(t, 1, table.Len())

	_, err = ReadExcel(path, ReadOptions{Sheet: "Missing"})
	assert.ErrorContains(t, err, `sheet "Missing"`)
}

func TestReadExcelFrom(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{{"smoker"}, {"Y"}})
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	table, err := ReadExcelFrom(f, "upload.xlsx", ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "upload.xlsx#Sheet1", table.Source)
}

func TestOpen(t *testing.T) {
	v := validation.NewFileValidator(nil)

	csvPath := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("smoker\nY\n"), 0o644))
	table, err := Open(v, csvPath, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	xlsxPath := writeWorkbook(t, "Sheet1", [][]interface{}{{"smoker"}, {"Y"}, {"N"}})
	table, err = Open(v, xlsxPath, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = Open(v, filepath.Join(t.TempDir(), "survey.ods"), ReadOptions{})
	assert.Error(t, err)
}
