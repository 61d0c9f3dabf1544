package categorical

// Source is one input of a recoding rule: a level label or a literal missing kind.
type Source struct {
	kind  Kind
	label string
}

// From names a level of the input column.
func From(label string) Source {
	return Source{kind: KindLabel, label: label}
}

// FromAbsent matches values that were missing because no input was supplied.
func FromAbsent() Source {
	return Source{kind: KindAbsent}
}

// FromRejected matches values that were missing because parsing rejected them.
func FromRejected() Source {
	return Source{kind: KindRejected}
}

func (s Source) Kind() Kind {
	return s.kind
}

func (s Source) String() string {
	if s.kind == KindLabel {
		return s.label
	}
	return "<" + s.kind.String() + ">"
}

// Rule maps every source onto To, or onto Rejected when Drop is set.
type Rule struct {
	To   string
	Drop bool
	From []Source
}

// Collapse returns a rule merging the given levels into to.
func Collapse(to string, labels ...string) Rule {
	r := Rule{To: to, From: make([]Source, len(labels))}
	for i, l := range labels {
		r.From[i] = From(l)
	}
	return r
}

// Rename returns a rule relabeling a single level.
func Rename(old, to string) Rule {
	return Collapse(to, old)
}

// DropLabels returns a rule sending the given levels to Rejected.
func DropLabels(labels ...string) Rule {
	r := Collapse("", labels...)
	r.Drop = true
	return r
}

// RecodeOptions configures Recode.
type RecodeOptions struct {
	// Exhaustive turns labels no rule mentions into Rejected instead of
	// passing them through.
	Exhaustive bool
}

// Recode remaps col through rules and returns a new Column of the same length.
//
// Every configuration problem (unknown or doubly claimed sources, empty
// targets, a column inconsistent with its own levels) is reported as a
// *ConfigError before any value is mapped.
func Recode(col Column, rules []Rule, opts RecodeOptions) (Column, error) {
	if err := col.validate("recode"); err != nil {
		return Column{}, err
	}
	plan, err := planRecode(col.Levels, rules, opts)
	if err != nil {
		return Column{}, err
	}

	values := make([]Value, len(col.Values))
	for i, v := range col.Values {
		values[i] = plan.apply(v)
	}
	return Column{Levels: plan.levels, Values: values}, nil
}

type recodePlan struct {
	labels     map[string]Value
	missing    map[Kind]Value
	exhaustive bool
	levels     *CategorySet
}

func (p *recodePlan) apply(v Value) Value {
	l, ok := v.Label()
	if !ok {
		if to, mapped := p.missing[v.Kind()]; mapped {
			return to
		}
		return v
	}
	if to, mapped := p.labels[l]; mapped {
		return to
	}
	if p.exhaustive {
		return Rejected()
	}
	return v
}

func planRecode(levels *CategorySet, rules []Rule, opts RecodeOptions) (*recodePlan, error) {
	var (
		unknown, duplicate []string
		emptyTarget        bool
	)
	owner := make(map[Source]int)
	seenUnknown := make(map[string]bool)
	seenDuplicate := make(map[Source]bool)

	for i, r := range rules {
		if !r.Drop && r.To == "" {
			emptyTarget = true
		}
		for _, src := range r.From {
			if src.kind == KindLabel && !levels.Contains(src.label) {
				if !seenUnknown[src.label] {
					seenUnknown[src.label] = true
					unknown = append(unknown, src.label)
				}
				continue
			}
			if prev, claimed := owner[src]; claimed && prev != i {
				if !seenDuplicate[src] {
					seenDuplicate[src] = true
					duplicate = append(duplicate, src.String())
				}
				continue
			}
			owner[src] = i
		}
	}
	switch {
	case len(unknown) > 0:
		return nil, configError("recode", ErrUnknownSource, unknown...)
	case len(duplicate) > 0:
		return nil, configError("recode", ErrDuplicateSource, duplicate...)
	case emptyTarget:
		return nil, configError("recode", ErrEmptyTarget)
	}

	plan := &recodePlan{
		labels:     make(map[string]Value),
		missing:    make(map[Kind]Value),
		exhaustive: opts.Exhaustive,
	}
	var out []string
	placed := make(map[string]bool)
	for _, r := range rules {
		target := Rejected()
		if !r.Drop {
			target = Label(r.To)
			if !placed[r.To] {
				placed[r.To] = true
				out = append(out, r.To)
			}
		}
		for _, src := range r.From {
			if src.kind == KindLabel {
				plan.labels[src.label] = target
			} else {
				plan.missing[src.kind] = target
			}
		}
	}
	if !opts.Exhaustive {
		for _, l := range levels.Labels() {
			if _, mentioned := plan.labels[l]; mentioned || placed[l] {
				continue
			}
			placed[l] = true
			out = append(out, l)
		}
	}
	plan.levels = mustSet(out, levels.Ordered())
	return plan, nil
}
