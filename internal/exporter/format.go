package exporter

import (
	"math"
	"strconv"

	"complaintreport/pkg/contracts/domain"
)

// IsWhole reports whether v has no fractional part.
func IsWhole(v float64) bool {
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}

// RoundOne rounds v to one decimal place using the nearest decimal
// representation, so 0.25 becomes 0.2 and 4.96 becomes 5.0.
func RoundOne(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// FormatDynamic renders whole numbers without a decimal point and every
// other value rounded to exactly one decimal digit.
func FormatDynamic(v float64) string {
	if IsWhole(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatOptional is FormatDynamic for a nullable value; nil renders as "".
func FormatOptional(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return ""
	}
	return FormatDynamic(*v)
}

// DisplayRows formats the numeric cells of summaries for display.
func DisplayRows(summaries []domain.BranchSummary) []domain.DisplayRow {
	rows := make([]domain.DisplayRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, domain.DisplayRow{
			Branch:               s.Branch,
			SumOfMOP:             FormatDynamic(s.SumOfMOP),
			AverageOfDays:        FormatDynamic(s.AverageOfDays),
			CountOfComplaintMode: s.CountOfComplaintMode,
		})
	}
	return rows
}

// valueString is the width-measuring text of a float column value: the
// shortest round-trip form, with ".0" on whole numbers and an exponent
// outside [1e-4, 1e16).
func valueString(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if IsWhole(v) {
		s += ".0"
	}
	return s
}
