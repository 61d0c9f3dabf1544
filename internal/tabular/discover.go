package tabular

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	apperrors "catnorm/internal/errors"
	"catnorm/internal/validation"
)

// Discover expands pattern (doublestar syntax, e.g. "surveys/**/*.xlsx") to
// the table files it matches, sorted by path. A pattern without
// metacharacters is returned unchanged so missing files surface as
// not-found errors when opened. Excel lock files ("~$name.xlsx") and files
// with other extensions are skipped.
func Discover(pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		return []string{pattern}, nil
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid glob pattern %q", pattern))
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("glob %q failed", pattern), err)
	}

	var files []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "~$") {
			continue
		}
		if _, err := validation.TableKind(m); err != nil {
			continue
		}
		files = append(files, m)
	}
	if len(files) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("table files matching %q", pattern))
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
