package categorical

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseStrings(t *testing.T) {
	tests := []struct {
		name           string
		raw            []string
		levels         []string
		opts           ParseOptions
		wantValues     []Value
		wantRejections []Rejection
	}{
		{
			name:           "lowercase typo is rejected",
			raw:            []string{"Y", "Y", "N", "n"},
			levels:         []string{"N", "Y"},
			wantValues:     []Value{Label("Y"), Label("Y"), Label("N"), Rejected()},
			wantRejections: []Rejection{{Position: 4, Text: "n"}},
		},
		{
			name:       "blank is absent, not rejected",
			raw:        []string{"N", "", "Y"},
			levels:     []string{"N", "Y"},
			wantValues: []Value{Label("N"), Absent(), Label("Y")},
		},
		{
			name:       "whitespace only is absent",
			raw:        []string{"  ", "\t"},
			levels:     []string{"N"},
			wantValues: []Value{Absent(), Absent()},
		},
		{
			name:       "extra NA sentinel",
			raw:        []string{"NA", "N"},
			levels:     []string{"N"},
			opts:       ParseOptions{NA: []string{"NA"}},
			wantValues: []Value{Absent(), Label("N")},
		},
		{
			name:           "empty levels reject every present value",
			raw:            []string{"a", "", "b"},
			levels:         nil,
			wantValues:     []Value{Rejected(), Absent(), Rejected()},
			wantRejections: []Rejection{{Position: 1, Text: "a"}, {Position: 3, Text: "b"}},
		},
		{
			name:           "matching is byte exact",
			raw:            []string{"Y ", "y", "Y"},
			levels:         []string{"Y"},
			wantValues:     []Value{Rejected(), Rejected(), Label("Y")},
			wantRejections: []Rejection{{Position: 1, Text: "Y "}, {Position: 2, Text: "y"}},
		},
		{
			name:           "merge missing collapses rejected into absent",
			raw:            []string{"x", "", "N"},
			levels:         []string{"N"},
			opts:           ParseOptions{MergeMissing: true},
			wantValues:     []Value{Absent(), Absent(), Label("N")},
			wantRejections: []Rejection{{Position: 1, Text: "x"}},
		},
		{
			name:       "empty input",
			raw:        []string{},
			levels:     []string{"N"},
			wantValues: []Value{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, rejections, err := ParseStrings(tt.raw, tt.levels, tt.opts)
			require.NoError(t, err)

			assert.Len(t, col.Values, len(tt.raw))
			assert.Equal(t, tt.wantValues, col.Values)
			assert.Equal(t, tt.wantRejections, rejections)
			assert.Equal(t, len(tt.levels), col.Levels.Len())
		})
	}
}

func TestParse_NilIsAbsent(t *testing.T) {
	raw := []*string{strPtr("N"), nil, strPtr("Y")}

	col, rejections, err := Parse(raw, []string{"N", "Y"}, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, []Value{Label("N"), Absent(), Label("Y")}, col.Values)
	assert.Empty(t, rejections)
}

func TestParse_DuplicateLevels(t *testing.T) {
	col, rejections, err := ParseStrings([]string{"N", "Y"}, []string{"N", "N", "Y", "Y", "Y"}, ParseOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateLabel))
	assert.True(t, IsConfigError(err))
	assert.Nil(t, col.Values)
	assert.Nil(t, rejections)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "parse", ce.Op)
	assert.Equal(t, []string{"N", "Y"}, ce.Labels)
	assert.Contains(t, err.Error(), `"N", "Y"`)
}

func TestParse_LevelIsNASentinel(t *testing.T) {
	col, rejections, err := ParseStrings([]string{"NA", "Y"}, []string{"N", "NA", "Y", "-"},
		ParseOptions{NA: []string{"-", "NA"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLevelIsNA))
	assert.Nil(t, col.Values)
	assert.Nil(t, rejections)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"NA", "-"}, ce.Labels)

	col, _, err = ParseStrings([]string{"NA", "Y"}, []string{"N", "NA", "Y"}, ParseOptions{NA: []string{"n/a"}})
	require.NoError(t, err)
	assert.Equal(t, []Value{Label("NA"), Label("Y")}, col.Values)
}

func TestParse_Ordered(t *testing.T) {
	col, _, err := ParseStrings([]string{"high", "low"}, []string{"low", "mid", "high"}, ParseOptions{Ordered: true})
	require.NoError(t, err)

	assert.True(t, col.Levels.Ordered())
	cmp, err := col.Levels.Compare(col.Values[0], col.Values[1])
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)
}

func TestParse_DoesNotModifyInput(t *testing.T) {
	raw := []string{"N", "n"}
	levels := []string{"N"}

	_, _, err := ParseStrings(raw, levels, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"N", "n"}, raw)
	assert.Equal(t, []string{"N"}, levels)
}

// Every present value outside the level set produces exactly one rejection
// carrying its own position, and every absent value produces none.
func TestParse_RejectionInvariants(t *testing.T) {
	raw := []string{"a", "", "b", "a", " ", "c", "b", "zz", ""}
	levels := []string{"a", "b"}

	col, rejections, err := ParseStrings(raw, levels, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, col.Values, len(raw))

	byPos := make(map[int]string)
	for _, r := range rejections {
		_, dup := byPos[r.Position]
		require.False(t, dup, "position %d reported twice", r.Position)
		byPos[r.Position] = r.Text
	}

	for i, s := range raw {
		v := col.Values[i]
		switch {
		case isBlank(s):
			assert.Equal(t, KindAbsent, v.Kind(), "index %d", i)
			assert.NotContains(t, byPos, i+1)
		case s == "a" || s == "b":
			assert.Equal(t, Label(s), v)
			assert.NotContains(t, byPos, i+1)
		default:
			assert.Equal(t, KindRejected, v.Kind(), "index %d", i)
			assert.Equal(t, s, byPos[i+1])
		}
	}
}

func TestExtendLevels(t *testing.T) {
	rejections := []Rejection{{4, "n"}, {6, "y"}, {9, "n"}, {10, "N"}}

	got := ExtendLevels([]string{"N", "Y"}, rejections)

	assert.Equal(t, []string{"N", "Y", "n", "y"}, got)

	col, rest, err := ParseStrings([]string{"Y", "n", "y"}, got, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, []string{"Y", "n", "y"}, col.Strings())
}
