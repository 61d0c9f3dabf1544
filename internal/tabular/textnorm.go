package tabular

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TextNormalizer rewrites raw cells before they are matched against a
// category set. The zero value leaves cells unchanged.
type TextNormalizer struct {
	Form      string // "", "NFC" or "NFKC"
	TrimSpace bool
}

// NewTextNormalizer validates the form name
func NewTextNormalizer(form string, trim bool) (*TextNormalizer, error) {
	form = strings.ToUpper(form)
	switch form {
	case "", "NFC", "NFKC":
	default:
		return nil, fmt.Errorf("unsupported unicode normalization form %q", form)
	}
	return &TextNormalizer{Form: form, TrimSpace: trim}, nil
}

// Enabled reports whether Apply changes anything
func (n *TextNormalizer) Enabled() bool {
	return n != nil && (n.Form != "" || n.TrimSpace)
}

// String normalizes a single cell
func (n *TextNormalizer) String(s string) string {
	switch n.Form {
	case "NFC":
		s = norm.NFC.String(s)
	case "NFKC":
		s = norm.NFKC.String(s)
	}
	if n.TrimSpace {
		s = strings.TrimSpace(s)
	}
	return s
}

// Apply returns normalized copies of cells; nil cells stay nil
func (n *TextNormalizer) Apply(cells []*string) []*string {
	if !n.Enabled() {
		return cells
	}
	out := make([]*string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		s := n.String(*c)
		out[i] = &s
	}
	return out
}
