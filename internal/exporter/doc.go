// Package exporter renders computed sales and timing reports into files.
//
// Three formats are supported:
//
// CSV: one file with titled sections (records, lots, resolutions, totals)
// and a UTF-8 BOM so spreadsheet tools detect the encoding.
//
// XLSX: a workbook with one sheet per section, built with excelize.
//
// JSON: the report view with amounts rounded to two decimals.
//
// Amounts keep full precision inside the reports and are rounded here, at the
// output boundary only.
//
// Example usage:
//
//	exp := exporter.NewExporter(logger)
//	err := exp.Sales(w, exporter.FormatXLSX, report)
package exporter
