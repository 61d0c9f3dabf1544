package categorical

// Kind discriminates the three cases of a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindRejected
	KindLabel
)

// String returns the lowercase name used in reports and JSON payloads.
func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindAbsent:
		return "absent"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// MissingText is how both missing kinds render by default.
const MissingText = "NA"

// Value is a categorical observation: a label, or one of two distinguished
// missing states. The zero Value is Absent.
type Value struct {
	kind  Kind
	label string
}

// Label returns a Value holding label s.
func Label(s string) Value {
	return Value{kind: KindLabel, label: s}
}

// Absent returns the missing value for cells that supplied no input.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Rejected returns the missing value for input that matched no label.
func Rejected() Value {
	return Value{kind: KindRejected}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Label returns the label and true, or "" and false for missing values.
func (v Value) Label() (string, bool) {
	if v.kind != KindLabel {
		return "", false
	}
	return v.label, true
}

// IsMissing reports whether v is Absent or Rejected.
func (v Value) IsMissing() bool {
	return v.kind != KindLabel
}

// String renders the label, or MissingText for either missing kind.
func (v Value) String() string {
	if l, ok := v.Label(); ok {
		return l
	}
	return MissingText
}
