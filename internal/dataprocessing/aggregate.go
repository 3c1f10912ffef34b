package dataprocessing

import (
	"errors"
	"sort"

	"complaintreport/pkg/contracts/domain"
)

// ErrNoData is returned by Aggregate when no rows are left to group. It is
// an informational outcome, not a failure of the run.
var ErrNoData = errors.New("no data available for the selected brand")

type branchTotals struct {
	sumMOP  float64
	sumDays float64
	rows    int
	modes   int
}

// Aggregate groups rows by branch and returns one summary per branch,
// ordered by SumOfMOP descending. Branches with equal sums keep ascending
// branch order.
func Aggregate(rows []domain.CleanRow) ([]domain.BranchSummary, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	groups := make(map[string]*branchTotals)
	for _, row := range rows {
		g, ok := groups[row.Branch]
		if !ok {
			g = &branchTotals{}
			groups[row.Branch] = g
		}
		g.sumMOP += row.MOP
		g.sumDays += row.Days
		g.rows++
		if row.ComplaintMode != "" {
			g.modes++
		}
	}

	branches := make([]string, 0, len(groups))
	for b := range groups {
		branches = append(branches, b)
	}
	sort.Strings(branches)

	summaries := make([]domain.BranchSummary, 0, len(branches))
	for _, b := range branches {
		g := groups[b]
		summaries = append(summaries, domain.BranchSummary{
			Branch:               b,
			SumOfMOP:             g.sumMOP,
			AverageOfDays:        g.sumDays / float64(g.rows),
			CountOfComplaintMode: g.modes,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].SumOfMOP > summaries[j].SumOfMOP
	})
	return summaries, nil
}
