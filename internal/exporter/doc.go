// Package exporter renders a branch report for people and spreadsheets.
//
// FormatDynamic and DisplayRows produce the display strings used by the web
// view and the CLI: whole numbers without a decimal point, everything else
// with one decimal digit.
//
// WriteWorkbook builds the styled "Report" workbook in memory and WriteCSV
// writes the same table as CSV.
//
// Example usage:
//
//	buf, err := exporter.WriteWorkbook(report)
//	if err != nil {
//	    return err
//	}
//	w.Header().Set("Content-Type", exporter.XLSXContentType)
//	w.Write(buf.Bytes())
package exporter
