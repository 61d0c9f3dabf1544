package categorical

import "strings"

// ParseOptions configures Parse.
type ParseOptions struct {
	// Ordered marks the resulting CategorySet as ordinal.
	Ordered bool

	// NA lists extra raw texts treated as absent, e.g. "NA" or "-".
	// Nil, empty and whitespace-only inputs are always absent. A level may
	// not also be listed here.
	NA []string

	// MergeMissing represents every missing value as Absent, discarding the
	// absent/rejected distinction. Rejections are still reported.
	MergeMissing bool
}

// Rejection records a raw value that matched no label. Position is 1-based.
type Rejection struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// Parse converts raw values into a Column against a closed set of levels.
// A nil entry means the cell supplied no input.
//
// Unmatched values become Rejected and are listed in the returned rejections;
// they never cause an error. The only error is a *ConfigError for a malformed
// level list or a level that is also an NA sentinel, returned before any
// value is examined.
func Parse(raw []*string, levels []string, opts ParseOptions) (Column, []Rejection, error) {
	set, err := newCategorySet("parse", levels, opts.Ordered)
	if err != nil {
		return Column{}, nil, err
	}

	na := make(map[string]struct{}, len(opts.NA))
	for _, s := range opts.NA {
		na[s] = struct{}{}
	}
	var clash []string
	for _, l := range set.labels {
		if hasKey(na, l) {
			clash = append(clash, l)
		}
	}
	if len(clash) > 0 {
		return Column{}, nil, configError("parse", ErrLevelIsNA, clash...)
	}

	values := make([]Value, len(raw))
	var rejections []Rejection
	for i, r := range raw {
		switch {
		case r == nil || isBlank(*r):
			values[i] = Absent()
		case hasKey(na, *r):
			values[i] = Absent()
		case set.Contains(*r):
			values[i] = Label(*r)
		default:
			rejections = append(rejections, Rejection{Position: i + 1, Text: *r})
			if opts.MergeMissing {
				values[i] = Absent()
			} else {
				values[i] = Rejected()
			}
		}
	}
	return Column{Levels: set, Values: values}, rejections, nil
}

// ParseStrings is Parse for inputs without a nil state.
func ParseStrings(raw []string, levels []string, opts ParseOptions) (Column, []Rejection, error) {
	ptrs := make([]*string, len(raw))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	return Parse(ptrs, levels, opts)
}

// ExtendLevels appends the distinct texts of rejections to levels in first-seen
// order, for callers that decide an unexpected value should become a level.
func ExtendLevels(levels []string, rejections []Rejection) []string {
	out := make([]string, len(levels), len(levels)+len(rejections))
	copy(out, levels)
	seen := make(map[string]bool, len(levels))
	for _, l := range levels {
		seen[l] = true
	}
	for _, r := range rejections {
		if seen[r.Text] {
			continue
		}
		seen[r.Text] = true
		out = append(out, r.Text)
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func hasKey(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}
