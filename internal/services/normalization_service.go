package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"catnorm/internal/config"
	apperrors "catnorm/internal/errors"
	"catnorm/internal/infrastructure"
	"catnorm/internal/tabular"
	"catnorm/pkg/categorical"
)

// maxLoggedRejections bounds the sample of rejected texts put in a log line
const maxLoggedRejections = 5

// ColumnSpec describes how one column is normalized
type ColumnSpec struct {
	Name         string
	Output       string
	Levels       []string
	Ordered      bool
	NA           []string
	MergeMissing bool
	Rules        []categorical.Rule
	Exhaustive   bool
	Relevel      []string
	DropUnused   bool
}

// OutputName returns the name the result is exported under
func (s ColumnSpec) OutputName() string {
	if s.Output != "" {
		return s.Output
	}
	return s.Name
}

// InputCounts counts the raw values that were missing or outside the
// category set when parsed, before recoding. Rejected values are not
// counted as absent even when MergeMissing stores them as Absent.
type InputCounts struct {
	Absent   int
	Rejected int
}

// ColumnResult is a normalized column with its data-quality report
type ColumnResult struct {
	Name       string
	Output     string
	Column     categorical.Column
	Rejections []categorical.Rejection
	Input      InputCounts
	Summary    categorical.Summary
}

// SpecFromRecipe resolves a recipe entry against configured defaults
func SpecFromRecipe(c config.ColumnRecipe, defaults config.NormalizeConfig) ColumnSpec {
	spec := ColumnSpec{
		Name:         c.Name,
		Output:       c.OutputName(),
		Levels:       c.Levels,
		Ordered:      c.Ordered,
		NA:           defaults.NA,
		MergeMissing: defaults.MergeMissing,
		Rules:        c.Rules(),
		Exhaustive:   c.Exhaustive,
		Relevel:      c.Relevel,
		DropUnused:   c.DropUnused,
	}
	if c.NA != nil {
		spec.NA = c.NA
	}
	if c.MergeMissing != nil {
		spec.MergeMissing = *c.MergeMissing
	}
	return spec
}

// SpecsFromRecipe resolves every column of a recipe
func SpecsFromRecipe(r *config.Recipe, defaults config.NormalizeConfig) []ColumnSpec {
	specs := make([]ColumnSpec, len(r.Columns))
	for i, c := range r.Columns {
		specs[i] = SpecFromRecipe(c, defaults)
	}
	return specs
}

// NormalizationService normalizes categorical columns
type NormalizationService struct {
	cfg     config.NormalizeConfig
	text    *tabular.TextNormalizer
	metrics *infrastructure.NormalizationMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures a NormalizationService
type Option func(*NormalizationService)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *NormalizationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records column outcomes on m
func WithMetrics(m *infrastructure.NormalizationMetrics) Option {
	return func(s *NormalizationService) { s.metrics = m }
}

// WithTracer wraps each column normalization in a span
func WithTracer(t trace.Tracer) Option {
	return func(s *NormalizationService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewNormalizationService creates a service using cfg for text cleanup and
// table parallelism.
func NewNormalizationService(cfg config.NormalizeConfig, opts ...Option) (*NormalizationService, error) {
	text, err := tabular.NewTextNormalizer(cfg.Unicode, cfg.TrimSpace)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid text normalization", err)
	}
	if cfg.MaxParallelColumns < 1 {
		cfg.MaxParallelColumns = 1
	}

	s := &NormalizationService{
		cfg:    cfg,
		text:   text,
		tracer: tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = infrastructure.WithComponent(s.logger, "normalization_service")
	return s, nil
}

// Defaults returns the configured normalization defaults
func (s *NormalizationService) Defaults() config.NormalizeConfig {
	return s.cfg
}

// NormalizeColumn parses raw against spec.Levels, then applies recoding,
// releveling and unused-level removal as configured. Configuration
// errors wrap *categorical.ConfigError; rejections never fail the call.
func (s *NormalizationService) NormalizeColumn(ctx context.Context, spec ColumnSpec, raw []*string) (ColumnResult, error) {
	ctx, span := s.tracer.Start(ctx, "normalize_column",
		trace.WithAttributes(
			attribute.String("column", spec.Name),
			attribute.Int("values", len(raw)),
		))
	defer span.End()

	logger := infrastructure.WithColumn(s.logger, spec.Name)
	start := time.Now()

	result, err := s.normalize(spec, raw)
	outcome := infrastructure.ColumnOutcome{
		Column:   spec.Name,
		Values:   len(raw),
		Absent:   result.Input.Absent,
		Rejected: result.Input.Rejected,
		Duration: time.Since(start),
		Err:      err,
	}
	s.metrics.RecordColumn(ctx, outcome)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Column configuration rejected")
		return ColumnResult{}, fmt.Errorf("column %q: %w", spec.Name, err)
	}

	if n := len(result.Rejections); n > 0 {
		sample := make([]string, 0, maxLoggedRejections)
		for _, r := range result.Rejections[:min(n, maxLoggedRejections)] {
			sample = append(sample, r.Text)
		}
		logger.WarnContext(ctx, "Values outside the category set",
			slog.Int("rejected", n),
			slog.Int("total", len(raw)),
			slog.Any("sample", sample))
	}
	logger.DebugContext(ctx, "Column normalized",
		slog.Int("values", len(raw)),
		slog.Int("absent", result.Input.Absent),
		slog.Duration("duration", outcome.Duration))
	return result, nil
}

func (s *NormalizationService) normalize(spec ColumnSpec, raw []*string) (ColumnResult, error) {
	col, rejections, err := categorical.Parse(s.text.Apply(raw), spec.Levels, categorical.ParseOptions{
		Ordered:      spec.Ordered,
		NA:           spec.NA,
		MergeMissing: spec.MergeMissing,
	})
	if err != nil {
		return ColumnResult{}, err
	}
	input := countInput(col, rejections)

	if len(spec.Rules) > 0 || spec.Exhaustive {
		col, err = categorical.Recode(col, spec.Rules, categorical.RecodeOptions{Exhaustive: spec.Exhaustive})
		if err != nil {
			return ColumnResult{}, err
		}
	}
	if len(spec.Relevel) > 0 {
		col, err = categorical.Relevel(col, spec.Relevel...)
		if err != nil {
			return ColumnResult{}, err
		}
	}
	if spec.DropUnused {
		col = categorical.DropUnused(col)
	}

	return ColumnResult{
		Name:       spec.Name,
		Output:     spec.OutputName(),
		Column:     col,
		Rejections: rejections,
		Input:      input,
		Summary:    categorical.Summarize(col),
	}, nil
}

// countInput counts absent and rejected values of a freshly parsed column
func countInput(col categorical.Column, rejections []categorical.Rejection) InputCounts {
	rejected := make(map[int]struct{}, len(rejections))
	for _, r := range rejections {
		rejected[r.Position] = struct{}{}
	}
	counts := InputCounts{Rejected: len(rejections)}
	for i, v := range col.Values {
		if _, ok := rejected[i+1]; ok {
			continue
		}
		if v.Kind() == categorical.KindAbsent {
			counts.Absent++
		}
	}
	return counts
}

// NormalizeTable normalizes the named columns of table concurrently. Results
// follow the order of specs. The first error cancels the remaining columns.
func (s *NormalizationService) NormalizeTable(ctx context.Context, table *tabular.Table, specs []ColumnSpec) ([]ColumnResult, error) {
	if len(specs) == 0 {
		return nil, apperrors.NewAppValidationError(ErrNoColumns.Error())
	}
	cells := make([][]*string, len(specs))
	for i, spec := range specs {
		c, err := table.Column(spec.Name)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}
	return s.normalizeAll(ctx, specs, cells)
}

// NormalizeColumns is NormalizeTable for callers holding raw columns
// directly. Every column must have the same length.
func (s *NormalizationService) NormalizeColumns(ctx context.Context, specs []ColumnSpec, cells [][]*string) ([]ColumnResult, error) {
	if len(specs) == 0 {
		return nil, apperrors.NewAppValidationError(ErrNoColumns.Error())
	}
	if len(specs) != len(cells) {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("%d column specs for %d columns", len(specs), len(cells)))
	}
	for i := range cells {
		if len(cells[i]) != len(cells[0]) {
			return nil, apperrors.NewAppError(apperrors.ErrTypeValidation,
				fmt.Sprintf("column %q has %d values, expected %d", specs[i].Name, len(cells[i]), len(cells[0])),
				ErrLengthMismatch)
		}
	}
	return s.normalizeAll(ctx, specs, cells)
}

func (s *NormalizationService) normalizeAll(ctx context.Context, specs []ColumnSpec, cells [][]*string) ([]ColumnResult, error) {
	start := time.Now()
	results := make([]ColumnResult, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallelColumns)
	for i := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.NormalizeColumn(gctx, specs[i], cells[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.WarnContext(ctx, "Table normalization cancelled", slog.String("error", err.Error()))
		}
		return nil, err
	}

	rejected := 0
	for _, r := range results {
		rejected += len(r.Rejections)
	}
	s.logger.InfoContext(ctx, "Table normalized",
		slog.Int("columns", len(results)),
		slog.Int("rejected", rejected),
		slog.Duration("duration", time.Since(start)))
	return results, nil
}
