// Package tabular reads header-plus-rows tables from Excel workbooks, CSV
// files and Google Sheets, and hands out columns as nullable raw cells ready
// for categorical parsing. It does no interpretation of cell content beyond
// optional Unicode normalization.
package tabular
