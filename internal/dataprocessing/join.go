package dataprocessing

import (
	"complaintreport/pkg/contracts/domain"
)

// Join left-joins complaints to the price list on item code.
//
// Every complaint is kept, in input order. A complaint whose item code has
// no price entry gets a nil MOP. When the price list holds several entries
// for one item code the complaint is repeated once per entry, in price list
// order. Blank item codes never match.
func Join(complaints []domain.Complaint, prices []domain.PriceEntry) []domain.JoinedRow {
	index := make(map[string][]int, len(prices))
	for i, p := range prices {
		if p.ItemCode == "" {
			continue
		}
		index[p.ItemCode] = append(index[p.ItemCode], i)
	}

	joined := make([]domain.JoinedRow, 0, len(complaints))
	for _, c := range complaints {
		matches := index[c.ItemCode]
		if c.ItemCode == "" || len(matches) == 0 {
			joined = append(joined, domain.JoinedRow{Complaint: c})
			continue
		}
		for _, i := range matches {
			mop := prices[i].MOP
			joined = append(joined, domain.JoinedRow{Complaint: c, MOP: &mop})
		}
	}
	return joined
}

// DuplicateItemCodes returns the item codes that appear more than once in
// the price list, in order of first appearance.
func DuplicateItemCodes(prices []domain.PriceEntry) []string {
	seen := make(map[string]int, len(prices))
	var dups []string
	for _, p := range prices {
		if p.ItemCode == "" {
			continue
		}
		seen[p.ItemCode]++
		if seen[p.ItemCode] == 2 {
			dups = append(dups, p.ItemCode)
		}
	}
	return dups
}
