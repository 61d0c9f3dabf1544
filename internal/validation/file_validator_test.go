package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catnorm/internal/errors"
	"catnorm/internal/shared/testutil"
)

func TestFileValidator_ValidateTableFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantKind      string
		wantType      apperrors.ErrorType
		errorContains string
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "survey.csv")
				require.NoError(t, os.WriteFile(file, []byte("smoker\nY\n"), 0o644))
				return file
			},
			wantKind: KindCSV,
		},
		{
			name: "excel file with upper-case extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "survey.XLSX")
				require.NoError(t, os.WriteFile(file, []byte("stub"), 0o644))
				return file
			},
			wantKind: KindExcel,
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantType:      apperrors.ErrTypeNotFound,
			errorContains: "not found",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "survey.txt")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
				return file
			},
			wantType:      apperrors.ErrTypeValidation,
			errorContains: "unsupported table file",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$survey.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
				return file
			},
			wantType:      apperrors.ErrTypeValidation,
			errorContains: "temporary Excel file",
		},
		{
			name: "directory named like a table",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.Mkdir(dir, 0o755))
				return dir
			},
			wantType:      apperrors.ErrTypeValidation,
			errorContains: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)

			kind, err := v.ValidateTableFile(tt.setupFunc(t))
			if tt.errorContains == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKind, kind)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type)
		})
	}
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	v := NewFileValidator(nil)

	out := filepath.Join(t.TempDir(), "nested", "dir", "result.csv")
	require.NoError(t, v.ValidateOutputFile(out))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must be removed")
}

func TestTableKind(t *testing.T) {
	kind, err := TableKind("a/b/c.xlsm")
	require.NoError(t, err)
	assert.Equal(t, KindExcel, kind)

	_, err = TableKind("noext")
	assert.Error(t, err)
}
