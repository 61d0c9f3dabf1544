package categorical

// Relevel moves the named levels to the front of the set, in the order given,
// keeping the remaining levels in their existing order. Values are unchanged.
func Relevel(col Column, first ...string) (Column, error) {
	var unknown []string
	front := make(map[string]bool, len(first))
	for _, l := range first {
		if !col.Levels.Contains(l) {
			unknown = append(unknown, l)
			continue
		}
		front[l] = true
	}
	if len(unknown) > 0 {
		return Column{}, configError("relevel", ErrUnknownLevel, unknown...)
	}

	order := make([]string, 0, col.Levels.Len())
	placed := make(map[string]bool, len(first))
	for _, l := range first {
		if !placed[l] {
			placed[l] = true
			order = append(order, l)
		}
	}
	for _, l := range col.Levels.Labels() {
		if !front[l] {
			order = append(order, l)
		}
	}
	return Column{
		Levels: mustSet(order, col.Levels.Ordered()),
		Values: cloneValues(col.Values),
	}, nil
}

// DropUnused removes levels that no value uses.
func DropUnused(col Column) Column {
	used := make(map[string]bool)
	for _, v := range col.Values {
		if l, ok := v.Label(); ok {
			used[l] = true
		}
	}
	var kept []string
	for _, l := range col.Levels.Labels() {
		if used[l] {
			kept = append(kept, l)
		}
	}
	return Column{
		Levels: mustSet(kept, col.Levels.Ordered()),
		Values: cloneValues(col.Values),
	}
}
