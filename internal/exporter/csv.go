package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"complaintreport/pkg/contracts/domain"
)

// CSVContentType is the MIME type of a CSV report.
const CSVContentType = "text/csv; charset=utf-8"

// CSVFilename is the download name of the CSV report for brand.
func CSVFilename(brand string) string {
	return strings.TrimSuffix(ReportFilename(brand), ".xlsx") + ".csv"
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the display-formatted report table to w.
func WriteCSV(w io.Writer, report *domain.BranchReport, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(domain.ReportHeaders()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range DisplayRows(report.Rows) {
		record := []string{
			row.Branch,
			row.SumOfMOP,
			row.AverageOfDays,
			strconv.Itoa(row.CountOfComplaintMode),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
