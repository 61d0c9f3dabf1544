package categorical

// CategorySet is an immutable, ordered vocabulary of unique labels.
type CategorySet struct {
	labels  []string
	index   map[string]int
	ordered bool
}

// NewCategorySet builds a set from labels in the given order. An empty set is
// valid; duplicated labels are a configuration error naming each duplicate once.
func NewCategorySet(labels []string, ordered bool) (*CategorySet, error) {
	return newCategorySet("category set", labels, ordered)
}

func newCategorySet(op string, labels []string, ordered bool) (*CategorySet, error) {
	s := &CategorySet{
		labels:  make([]string, 0, len(labels)),
		index:   make(map[string]int, len(labels)),
		ordered: ordered,
	}
	var dups []string
	seenDup := make(map[string]bool)
	for _, l := range labels {
		if _, exists := s.index[l]; exists {
			if !seenDup[l] {
				dups = append(dups, l)
				seenDup[l] = true
			}
			continue
		}
		s.index[l] = len(s.labels)
		s.labels = append(s.labels, l)
	}
	if len(dups) > 0 {
		return nil, configError(op, ErrDuplicateLabel, dups...)
	}
	return s, nil
}

// mustSet is used where uniqueness is already guaranteed by construction.
func mustSet(labels []string, ordered bool) *CategorySet {
	s, err := NewCategorySet(labels, ordered)
	if err != nil {
		panic(err)
	}
	return s
}

// Labels returns a copy of the labels in set order.
func (s *CategorySet) Labels() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s *CategorySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

func (s *CategorySet) Ordered() bool {
	return s != nil && s.ordered
}

// Contains reports whether label is a member (byte-exact).
func (s *CategorySet) Contains(label string) bool {
	_, ok := s.Index(label)
	return ok
}

// Index returns the zero-based position of label.
func (s *CategorySet) Index(label string) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.index[label]
	return i, ok
}

// Compare orders a and b by level position in an ordered set. Missing values
// sort after every label and compare equal to each other.
func (s *CategorySet) Compare(a, b Value) (int, error) {
	if !s.Ordered() {
		return 0, configError("compare", ErrUnordered)
	}
	ia, err := s.rank(a)
	if err != nil {
		return 0, err
	}
	ib, err := s.rank(b)
	if err != nil {
		return 0, err
	}
	switch {
	case ia < ib:
		return -1, nil
	case ia > ib:
		return 1, nil
	default:
		return 0, nil
	}
}

func (s *CategorySet) rank(v Value) (int, error) {
	l, ok := v.Label()
	if !ok {
		return len(s.labels), nil
	}
	i, ok := s.index[l]
	if !ok {
		return 0, configError("compare", ErrUnknownLevel, l)
	}
	return i, nil
}
