package categorical

// Column is a positional sequence of Values together with the CategorySet they
// are drawn from. Operations in this package never modify a Column in place.
type Column struct {
	Levels *CategorySet
	Values []Value
}

// NewColumn validates that every label in values belongs to levels and returns a
// Column that owns a copy of values.
func NewColumn(levels *CategorySet, values []Value) (Column, error) {
	if levels == nil {
		levels = mustSet(nil, false)
	}
	col := Column{Levels: levels, Values: cloneValues(values)}
	if err := col.validate("column"); err != nil {
		return Column{}, err
	}
	return col, nil
}

func (c Column) Len() int {
	return len(c.Values)
}

// Strings renders each value with String, so both missing kinds become NA.
func (c Column) Strings() []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.String()
	}
	return out
}

// validate reports labels used by values that are not members of Levels.
func (c Column) validate(op string) error {
	var unknown []string
	seen := make(map[string]bool)
	for _, v := range c.Values {
		l, ok := v.Label()
		if !ok || c.Levels.Contains(l) || seen[l] {
			continue
		}
		seen[l] = true
		unknown = append(unknown, l)
	}
	if len(unknown) > 0 {
		return configError(op, ErrUnknownLevel, unknown...)
	}
	return nil
}

func cloneValues(values []Value) []Value {
	out := make([]Value, len(values))
	copy(out, values)
	return out
}
