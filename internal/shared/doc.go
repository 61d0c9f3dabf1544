// Package shared holds helpers used across catnorm packages that belong to no
// single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// structured log output, plus small fixtures for building nullable cell
// columns:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewNormalizationService(logger, nil, nil, 4)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "values rejected")
package shared
