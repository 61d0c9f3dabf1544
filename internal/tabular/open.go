package tabular

import (
	"catnorm/internal/validation"
)

// Open validates path and reads it with the reader matching its extension
func Open(v *validation.FileValidator, path string, opts ReadOptions) (*Table, error) {
	kind, err := v.ValidateTableFile(path)
	if err != nil {
		return nil, err
	}
	if kind == validation.KindExcel {
		return ReadExcel(path, opts)
	}
	return ReadCSVFile(path, opts)
}
