package categorical

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Configuration error causes. A *ConfigError always unwraps to one of these.
var (
	ErrDuplicateLabel  = errors.New("duplicate label in category set")
	ErrUnknownSource   = errors.New("recode source is not a level of the column")
	ErrDuplicateSource = errors.New("recode source claimed by more than one rule")
	ErrEmptyTarget     = errors.New("recode rule has an empty target label")
	ErrUnknownLevel    = errors.New("label is not a level of the category set")
	ErrUnordered       = errors.New("category set is not ordered")
	ErrLevelIsNA       = errors.New("label is also an absent sentinel")
)

// ConfigError reports a structural mistake in caller-supplied configuration.
// It is raised before any value is processed and is never used for bad data.
type ConfigError struct {
	Op     string
	Err    error
	Labels []string
}

func (e *ConfigError) Error() string {
	if len(e.Labels) == 0 {
		return fmt.Sprintf("categorical: %s: %v", e.Op, e.Err)
	}
	quoted := make([]string, len(e.Labels))
	for i, l := range e.Labels {
		quoted[i] = strconv.Quote(l)
	}
	return fmt.Sprintf("categorical: %s: %v: %s", e.Op, e.Err, strings.Join(quoted, ", "))
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func configError(op string, cause error, labels ...string) *ConfigError {
	return &ConfigError{Op: op, Err: cause, Labels: labels}
}
