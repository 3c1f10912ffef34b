package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"complaintreport/pkg/contracts/domain"
)

// ParseNumber converts a cell to a float. ok is false for blank,
// unparseable, NaN or infinite values.
func ParseNumber(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// strconv also accepts hex floats and underscores after a base prefix;
	// spreadsheet numbers are always decimal.
	lower := strings.ToLower(s)
	if strings.Contains(lower, "0x") || strings.Contains(s, "_") {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Clean coerces MOP and Days to numbers and drops every row where either is
// null or the branch is blank. The result preserves input order.
func Clean(rows []domain.JoinedRow) []domain.CleanRow {
	cleaned := make([]domain.CleanRow, 0, len(rows))
	for _, row := range rows {
		if row.MOP == nil || row.Branch == "" {
			continue
		}
		mop, ok := ParseNumber(*row.MOP)
		if !ok {
			continue
		}
		days, ok := ParseNumber(row.Days)
		if !ok {
			continue
		}
		cleaned = append(cleaned, domain.CleanRow{
			Branch:        row.Branch,
			Brand:         row.Brand,
			ComplaintMode: row.ComplaintMode,
			MOP:           mop,
			Days:          days,
		})
	}
	return cleaned
}
