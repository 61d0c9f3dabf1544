// Package exporter writes normalized tables and their data-quality reports.
//
// Results are first laid out as Frames (header plus text rows):
//
//	MergeFrame       the source table with normalized columns substituted
//	ColumnsFrame     only the normalized columns
//	RejectionsFrame  column, position and text of every rejected value
//	SummaryFrame     per-level counts plus absent and rejected totals
//	LevelsFrame      the resulting category set of each column
//
// CSVWriter writes a Frame as UTF-8 CSV with a byte order mark for Excel
// compatibility. ExcelWriter writes data, levels, summary and rejections
// sheets into one workbook.
package exporter
