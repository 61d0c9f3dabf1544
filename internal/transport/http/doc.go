// Package http implements the JSON API of the normalization service.
//
// Handlers stay thin: they decode and validate request DTOs, convert them
// into services.ColumnSpec values and render the results. Errors are passed
// to the shared apperrors.ErrorHandler, which answers in RFC 7807 form:
//
//	POST /api/v1/columns/normalize  one column, parse and optional recode
//	POST /api/v1/tables/normalize   header + rows + per-column specs
//	GET  /api/health                health status
//
// Missing values are encoded with their kind so clients can tell empty input
// apart from input that matched no level:
//
//	[{"label":"Yes"}, {"missing":"absent"}, {"missing":"rejected"}]
package http
