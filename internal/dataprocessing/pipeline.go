package dataprocessing

import (
	"complaintreport/pkg/contracts/domain"
)

// Prepared is the joined and cleaned table of one run, before the brand
// filter is applied.
type Prepared struct {
	Rows           []domain.CleanRow
	Brands         []string
	JoinedRows     int
	DroppedRows    int
	DuplicateItems []string
	UnmatchedItems int
}

// Prepare joins and cleans the loaded tables and derives the brand options.
func Prepare(complaints []domain.Complaint, prices []domain.PriceEntry) *Prepared {
	joined := Join(complaints, prices)
	cleaned := Clean(joined)

	unmatched := 0
	for _, row := range joined {
		if row.MOP == nil {
			unmatched++
		}
	}

	return &Prepared{
		Rows:           cleaned,
		Brands:         Brands(cleaned),
		JoinedRows:     len(joined),
		DroppedRows:    len(joined) - len(cleaned),
		DuplicateItems: DuplicateItemCodes(prices),
		UnmatchedItems: unmatched,
	}
}

// Summarize filters the prepared rows by brand and aggregates them per
// branch. It returns ErrNoData when the filter leaves nothing.
func (p *Prepared) Summarize(brand string) (*domain.BranchReport, error) {
	if IsAllBrands(brand) {
		brand = domain.AllBrands
	}

	summaries, err := Aggregate(FilterByBrand(p.Rows, brand))
	if err != nil {
		return nil, err
	}
	return &domain.BranchReport{Brand: brand, Rows: summaries}, nil
}
