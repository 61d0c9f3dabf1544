package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"catnorm/internal/config"
	apperrors "catnorm/internal/errors"
	"catnorm/internal/infrastructure"
	"catnorm/internal/shared/testutil"
	"catnorm/internal/tabular"
	"catnorm/pkg/categorical"
)

func newTestService(t *testing.T, opts ...Option) (*NormalizationService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	svc, err := NewNormalizationService(config.Default().Normalize, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return svc, handler
}

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		name         string
		spec         ColumnSpec
		raw          []string
		want         []string
		wantLevels   []string
		wantRejected []categorical.Rejection
	}{
		{
			name:         "rejects values outside the set",
			spec:         ColumnSpec{Name: "smoker", Levels: []string{"N", "Y"}},
			raw:          []string{"Y", "Y", "N", "n"},
			want:         []string{"Y", "Y", "N", "NA"},
			wantLevels:   []string{"N", "Y"},
			wantRejected: []categorical.Rejection{{Position: 4, Text: "n"}},
		},
		{
			name: "collapses case variants",
			spec: ColumnSpec{
				Name:   "smoker",
				Levels: []string{"N", "n", "Y"},
				Rules:  []categorical.Rule{categorical.Collapse("No", "N", "n"), categorical.Collapse("Yes", "Y")},
			},
			raw:        []string{"Y", "Y", "N", "n"},
			want:       []string{"Yes", "Yes", "No", "No"},
			wantLevels: []string{"No", "Yes"},
		},
		{
			name:       "blank and NA tokens are absent",
			spec:       ColumnSpec{Name: "smoker", Levels: []string{"N", "Y"}, NA: []string{"NA", "-"}},
			raw:        []string{"N", "", "<nil>", "-", "NA", "Y"},
			want:       []string{"N", "NA", "NA", "NA", "NA", "Y"},
			wantLevels: []string{"N", "Y"},
		},
		{
			name: "exhaustive recode rejects unmapped labels",
			spec: ColumnSpec{
				Name:       "smoker",
				Levels:     []string{"N", "Y"},
				Rules:      []categorical.Rule{categorical.Rename("N", "No")},
				Exhaustive: true,
			},
			raw:        []string{"N", "Y"},
			want:       []string{"No", "NA"},
			wantLevels: []string{"No"},
		},
		{
			name: "relevel and drop unused",
			spec: ColumnSpec{
				Name:       "grade",
				Levels:     []string{"low", "mid", "high"},
				Relevel:    []string{"high"},
				DropUnused: true,
			},
			raw:        []string{"low", "high"},
			want:       []string{"low", "high"},
			wantLevels: []string{"high", "low"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			result, err := svc.NormalizeColumn(context.Background(), tt.spec, testutil.StrPtrs(tt.raw...))
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.Column.Strings())
			assert.Equal(t, tt.wantLevels, result.Column.Levels.Labels())
			assert.Equal(t, tt.wantRejected, result.Rejections)
			assert.Equal(t, len(tt.raw), result.Summary.Total)
			assert.Equal(t, tt.spec.Name, result.Output)
		})
	}
}

func TestNormalizeColumn_LogsRejections(t *testing.T) {
	svc, handler := newTestService(t)

	_, err := svc.NormalizeColumn(context.Background(),
		ColumnSpec{Name: "smoker", Levels: []string{"N", "Y"}},
		testutil.StrPtrs("Y", "yes", "n"))
	require.NoError(t, err)

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Values outside the category set")
	testutil.AssertLogAttr(t, handler, "column", "smoker")
	testutil.AssertLogAttr(t, handler, "rejected", int64(2))
	testutil.AssertNoErrors(t, handler)
}

func TestNormalizeColumn_ConfigError(t *testing.T) {
	svc, handler := newTestService(t)

	_, err := svc.NormalizeColumn(context.Background(),
		ColumnSpec{Name: "smoker", Levels: []string{"N", "N", "Y"}},
		testutil.StrPtrs("N"))
	require.Error(t, err)

	assert.True(t, errors.Is(err, categorical.ErrDuplicateLabel))
	assert.True(t, categorical.IsConfigError(err))
	assert.Contains(t, err.Error(), `column "smoker"`)
	testutil.AssertLogContains(t, handler, slog.LevelError, "Column configuration rejected")
}

func TestNormalizeColumn_LevelShadowedByDefaultNA(t *testing.T) {
	svc, _ := newTestService(t)
	spec := SpecFromRecipe(config.ColumnRecipe{Name: "answer", Levels: []string{"yes", "NA"}}, svc.Defaults())

	_, err := svc.NormalizeColumn(context.Background(), spec, testutil.StrPtrs("NA", "yes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, categorical.ErrLevelIsNA))

	spec = SpecFromRecipe(config.ColumnRecipe{Name: "answer", Levels: []string{"yes", "NA"}, NA: []string{}}, svc.Defaults())
	result, err := svc.NormalizeColumn(context.Background(), spec, testutil.StrPtrs("NA", "yes"))
	require.NoError(t, err)
	assert.Equal(t, []string{"NA", "yes"}, result.Column.Strings())
	assert.Empty(t, result.Rejections)
}

func TestNormalizeColumn_MergeMissing(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.NormalizeColumn(context.Background(),
		ColumnSpec{Name: "smoker", Levels: []string{"N", "Y"}, MergeMissing: true},
		testutil.StrPtrs("x", "", "Y"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Absent)
	assert.Equal(t, 0, result.Summary.Rejected)
	assert.Len(t, result.Rejections, 1)
	assert.Equal(t, InputCounts{Absent: 1, Rejected: 1}, result.Input)
}

func TestNormalizeColumn_InputCountsIgnoreRecode(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.NormalizeColumn(context.Background(),
		ColumnSpec{
			Name:       "smoker",
			Levels:     []string{"N", "Y", "U"},
			Rules:      []categorical.Rule{categorical.DropLabels("U"), categorical.Rename("Y", "Yes")},
			Exhaustive: true,
		},
		testutil.StrPtrs("Y", "U", "N", "", "x"))
	require.NoError(t, err)

	assert.Equal(t, InputCounts{Absent: 1, Rejected: 1}, result.Input)
	assert.Equal(t, 3, result.Summary.Rejected)
}

func TestNormalizeColumn_TextNormalization(t *testing.T) {
	cfg := config.Default().Normalize
	cfg.Unicode = config.UnicodeNFKC
	cfg.TrimSpace = true
	svc, err := NewNormalizationService(cfg)
	require.NoError(t, err)

	result, err := svc.NormalizeColumn(context.Background(),
		ColumnSpec{Name: "smoker", Levels: []string{"N", "Y"}},
		testutil.StrPtrs(" Y ", "Ｎ"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "N"}, result.Column.Strings())
	assert.Empty(t, result.Rejections)
}

func TestNewNormalizationService_InvalidUnicode(t *testing.T) {
	cfg := config.Default().Normalize
	cfg.Unicode = "NFD"
	_, err := NewNormalizationService(cfg)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
}

func surveyTable(t *testing.T, columns int) *tabular.Table {
	t.Helper()
	header := make([]string, columns)
	for i := range header {
		header[i] = fmt.Sprintf("q%d", i)
	}
	rows := [][]string{make([]string, columns), make([]string, columns)}
	for i := 0; i < columns; i++ {
		rows[0][i] = "Y"
		rows[1][i] = "maybe"
	}
	table, err := tabular.NewTable("survey", header, rows)
	require.NoError(t, err)
	return table
}

func TestNormalizeTable_PreservesOrder(t *testing.T) {
	svc, _ := newTestService(t)
	table := surveyTable(t, 12)

	specs := make([]ColumnSpec, 0, 12)
	for i := 11; i >= 0; i-- {
		specs = append(specs, ColumnSpec{Name: fmt.Sprintf("q%d", i), Levels: []string{"N", "Y"}})
	}

	results, err := svc.NormalizeTable(context.Background(), table, specs)
	require.NoError(t, err)
	require.Len(t, results, len(specs))
	for i, r := range results {
		assert.Equal(t, specs[i].Name, r.Name)
		assert.Equal(t, []string{"Y", "NA"}, r.Column.Strings())
		assert.Equal(t, []categorical.Rejection{{Position: 2, Text: "maybe"}}, r.Rejections)
	}
}

func TestNormalizeTable_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	table := surveyTable(t, 2)

	t.Run("no specs", func(t *testing.T) {
		_, err := svc.NormalizeTable(context.Background(), table, nil)
		assert.ErrorContains(t, err, ErrNoColumns.Error())
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := svc.NormalizeTable(context.Background(), table, []ColumnSpec{{Name: "q9"}})
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
	})

	t.Run("configuration error propagates", func(t *testing.T) {
		_, err := svc.NormalizeTable(context.Background(), table, []ColumnSpec{
			{Name: "q0", Levels: []string{"N", "Y"}},
			{Name: "q1", Levels: []string{"N", "Y"}, Rules: []categorical.Rule{categorical.Rename("maybe", "M")}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, categorical.ErrUnknownSource))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.NormalizeTable(ctx, table, []ColumnSpec{{Name: "q0", Levels: []string{"Y"}}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNormalizeColumns_LengthMismatch(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.NormalizeColumns(context.Background(),
		[]ColumnSpec{{Name: "a"}, {Name: "b"}},
		[][]*string{testutil.StrPtrs("x"), testutil.StrPtrs("x", "y")})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = svc.NormalizeColumns(context.Background(), []ColumnSpec{{Name: "a"}}, nil)
	assert.Error(t, err)
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestNormalizeColumn_Telemetry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.CreateNormalizationMetrics(mp.Meter("test"))
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	svc, _ := newTestService(t, WithMetrics(metrics), WithTracer(tp.Tracer("test")))
	ctx := context.Background()

	_, err = svc.NormalizeColumn(ctx, ColumnSpec{Name: "smoker", Levels: []string{"N", "Y"}},
		testutil.StrPtrs("Y", "n", "", "N"))
	require.NoError(t, err)
	_, err = svc.NormalizeColumn(ctx, ColumnSpec{Name: "bad", Levels: []string{"a", "a"}}, nil)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(4), sumCounter(t, rm, "catnorm_values_total"))
	assert.Equal(t, int64(1), sumCounter(t, rm, "catnorm_values_rejected_total"))
	assert.Equal(t, int64(1), sumCounter(t, rm, "catnorm_values_absent_total"))
	assert.Equal(t, int64(1), sumCounter(t, rm, "catnorm_config_errors_total"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "normalize_column", spans[0].Name())
}

func TestNormalizeColumn_TelemetryMergeMissing(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.CreateNormalizationMetrics(mp.Meter("test"))
	require.NoError(t, err)

	svc, _ := newTestService(t, WithMetrics(metrics))
	ctx := context.Background()

	result, err := svc.NormalizeColumn(ctx,
		ColumnSpec{Name: "smoker", Levels: []string{"N", "Y"}, MergeMissing: true},
		testutil.StrPtrs("Y", "n", "x", ""))
	require.NoError(t, err)
	require.Len(t, result.Rejections, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(4), sumCounter(t, rm, "catnorm_values_total"))
	assert.Equal(t, int64(2), sumCounter(t, rm, "catnorm_values_rejected_total"))
	assert.Equal(t, int64(1), sumCounter(t, rm, "catnorm_values_absent_total"))
}

func TestSpecFromRecipe(t *testing.T) {
	recipe, err := config.ParseRecipe([]byte(`
columns:
  - name: smoker
    output: smoker_clean
    levels: [N, n, Y]
    recode:
      - {to: "No", from: [N, n]}
  - name: grade
    levels: [low, high]
    na: ["-"]
    merge_missing: true
`))
	require.NoError(t, err)

	defaults := config.Default().Normalize
	specs := SpecsFromRecipe(recipe, defaults)
	require.Len(t, specs, 2)

	assert.Equal(t, "smoker_clean", specs[0].OutputName())
	assert.Equal(t, defaults.NA, specs[0].NA)
	assert.False(t, specs[0].MergeMissing)
	assert.Equal(t, []categorical.Rule{categorical.Collapse("No", "N", "n")}, specs[0].Rules)

	assert.Equal(t, []string{"-"}, specs[1].NA)
	assert.True(t, specs[1].MergeMissing)
}
