package testutil

// StrPtrs converts raw cell text into the nullable form used by column
// readers. The literal "<nil>" stands for a cell that was never written.
func StrPtrs(cells ...string) []*string {
	out := make([]*string, len(cells))
	for i := range cells {
		if cells[i] == "<nil>" {
			continue
		}
		out[i] = &cells[i]
	}
	return out
}

// Deref renders nullable cells back to strings, using "<nil>" for nil.
func Deref(cells []*string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = *c
	}
	return out
}
