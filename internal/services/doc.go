// Package services implements the application layer between transports
// (CLI, HTTP) and the categorical package.
//
// NormalizationService applies a column specification (category set,
// missing-value tokens, recoding rules) to raw cells, records metrics and
// spans, and logs data-quality rejections. Tables are normalized column by
// column in parallel with the result order matching the request order.
//
//	svc, err := services.NewNormalizationService(cfg.Normalize,
//	    services.WithLogger(logger),
//	    services.WithMetrics(metrics))
//	results, err := svc.NormalizeTable(ctx, table, specs)
//
// HealthService reports liveness and version information for the HTTP API.
package services
