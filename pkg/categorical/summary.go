package categorical

// LevelCount is the number of observations of one level.
type LevelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is a frequency table of a Column.
type Summary struct {
	Levels   []LevelCount `json:"levels"`
	Absent   int          `json:"absent"`
	Rejected int          `json:"rejected"`
	Missing  int          `json:"missing"`
	Total    int          `json:"total"`
}

// Summarize counts each level in set order, including levels with no
// observations, and each missing kind.
func Summarize(col Column) Summary {
	labels := col.Levels.Labels()
	s := Summary{
		Levels: make([]LevelCount, len(labels)),
		Total:  len(col.Values),
	}
	for i, l := range labels {
		s.Levels[i].Label = l
	}
	for _, v := range col.Values {
		switch v.Kind() {
		case KindAbsent:
			s.Absent++
		case KindRejected:
			s.Rejected++
		default:
			if i, ok := col.Levels.Index(v.label); ok {
				s.Levels[i].Count++
			}
		}
	}
	s.Missing = s.Absent + s.Rejected
	return s
}
