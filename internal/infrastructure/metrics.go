package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// NormalizationMetrics holds the column normalization instruments
type NormalizationMetrics struct {
	ValuesTotal    metric.Int64Counter
	RejectedTotal  metric.Int64Counter
	AbsentTotal    metric.Int64Counter
	ConfigErrors   metric.Int64Counter
	ColumnDuration metric.Float64Histogram
}

// ColumnOutcome is what one column normalization produced
type ColumnOutcome struct {
	Column   string
	Values   int
	Absent   int
	Rejected int
	Duration time.Duration
	Err      error
}

// CreateNormalizationMetrics registers the instruments on meter
func CreateNormalizationMetrics(meter metric.Meter) (*NormalizationMetrics, error) {
	valuesTotal, err := meter.Int64Counter(
		"catnorm_values_total",
		metric.WithDescription("Total number of values normalized"),
	)
	if err != nil {
		return nil, err
	}

	rejectedTotal, err := meter.Int64Counter(
		"catnorm_values_rejected_total",
		metric.WithDescription("Values rejected because they are not in the category set"),
	)
	if err != nil {
		return nil, err
	}

	absentTotal, err := meter.Int64Counter(
		"catnorm_values_absent_total",
		metric.WithDescription("Values read as absent"),
	)
	if err != nil {
		return nil, err
	}

	configErrors, err := meter.Int64Counter(
		"catnorm_config_errors_total",
		metric.WithDescription("Column normalizations refused for invalid configuration"),
	)
	if err != nil {
		return nil, err
	}

	columnDuration, err := meter.Float64Histogram(
		"catnorm_column_duration_seconds",
		metric.WithDescription("Column normalization duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &NormalizationMetrics{
		ValuesTotal:    valuesTotal,
		RejectedTotal:  rejectedTotal,
		AbsentTotal:    absentTotal,
		ConfigErrors:   configErrors,
		ColumnDuration: columnDuration,
	}, nil
}

// RecordColumn records one column normalization. A nil receiver is a no-op.
func (m *NormalizationMetrics) RecordColumn(ctx context.Context, o ColumnOutcome) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("column", o.Column))
	status := "success"
	if o.Err != nil {
		status = "failure"
		m.ConfigErrors.Add(ctx, 1, attrs)
	} else {
		m.ValuesTotal.Add(ctx, int64(o.Values), attrs)
		m.RejectedTotal.Add(ctx, int64(o.Rejected), attrs)
		m.AbsentTotal.Add(ctx, int64(o.Absent), attrs)
	}
	m.ColumnDuration.Record(ctx, o.Duration.Seconds(), metric.WithAttributes(
		attribute.String("column", o.Column),
		attribute.String("status", status),
	))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("column.metrics_recorded",
			trace.WithAttributes(
				attribute.String("column", o.Column),
				attribute.Int("values", o.Values),
				attribute.Int("rejected", o.Rejected),
				attribute.Float64("duration_seconds", o.Duration.Seconds()),
			),
		)
	}
}
