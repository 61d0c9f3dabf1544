package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "catnorm/internal/errors"
)

// Supported table file kinds
const (
	KindExcel = "excel"
	KindCSV   = "csv"
)

var tableExtensions = map[string]string{
	".xlsx": KindExcel,
	".xlsm": KindExcel,
	".csv":  KindCSV,
}

// FileValidator checks input and output paths before any table is read or written
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With("component", "file_validator"),
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return apperrors.NewNotFoundError(path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// TableKind returns the kind of table file implied by the extension
func TableKind(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := tableExtensions[ext]
	if !ok {
		return "", apperrors.NewAppValidationError(
			fmt.Sprintf("unsupported table file %s (extension: %q)", path, ext))
	}
	return kind, nil
}

// ValidateTableFile checks that path is a readable workbook or CSV file and
// returns its kind.
func (v *FileValidator) ValidateTableFile(path string) (string, error) {
	kind, err := TableKind(path)
	if err != nil {
		v.logger.Error("Unsupported table file", slog.String("file", path))
		return "", err
	}
	if kind == KindExcel && strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary Excel file", slog.String("file", path))
		return "", apperrors.NewAppValidationError(fmt.Sprintf("file %s is a temporary Excel file", path))
	}
	if err := v.ValidateFile(path); err != nil {
		return "", err
	}
	return kind, nil
}

// ValidateOutputFile ensures the parent directory of path exists and is writable
func (v *FileValidator) ValidateOutputFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}
