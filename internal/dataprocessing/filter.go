package dataprocessing

import (
	"sort"

	"complaintreport/pkg/contracts/domain"
)

// IsAllBrands reports whether brand selects every row.
func IsAllBrands(brand string) bool {
	return brand == "" || brand == domain.AllBrands
}

// FilterByBrand keeps the rows whose brand equals brand exactly. The "All"
// sentinel and the empty string keep every row.
func FilterByBrand(rows []domain.CleanRow, brand string) []domain.CleanRow {
	if IsAllBrands(brand) {
		return rows
	}

	filtered := make([]domain.CleanRow, 0, len(rows))
	for _, row := range rows {
		if row.Brand == brand {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// Brands returns the options of the brand selector: "All" followed by the
// distinct non-blank brands of rows in ascending order. A brand spelled
// "All" is folded into the sentinel.
func Brands(rows []domain.CleanRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if row.Brand != "" && row.Brand != domain.AllBrands {
			seen[row.Brand] = struct{}{}
		}
	}

	brands := make([]string, 0, len(seen))
	for b := range seen {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	return append([]string{domain.AllBrands}, brands...)
}
