package domain

// Column headers used by the complaint log and the MOP price list.
const (
	ColumnItemCode      = "Item Code"
	ColumnBranch        = "Branch"
	ColumnComplaintMode = "Complaint Mode"
	ColumnDays          = "Days"
	ColumnBrand         = "Brand"
	ColumnMOP           = "MOP"

	// ColumnPriceListItemCode is the spelling used by the MOP list before it
	// is renamed to ColumnItemCode for the join.
	ColumnPriceListItemCode = "Item code"
)

// Report column headers, in output order.
const (
	HeaderBranch        = "Branch"
	HeaderSumOfMOP      = "Sum of MOP"
	HeaderAverageOfDays = "Average of Days"
	HeaderCountOfMode   = "Count of Complaint Mode"
)

// AllBrands is the selector value meaning "no brand filter".
const AllBrands = "All"

// ReportHeaders returns the headers of the branch summary table.
func ReportHeaders() []string {
	return []string{HeaderBranch, HeaderSumOfMOP, HeaderAverageOfDays, HeaderCountOfMode}
}

// Complaint is one row of the complaint transaction log.
// Empty strings are null cells. Extra holds every column the report does not use.
type Complaint struct {
	ItemCode      string            `json:"item_code"`
	Branch        string            `json:"branch"`
	ComplaintMode string            `json:"complaint_mode"`
	Brand         string            `json:"brand"`
	Days          string            `json:"days"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// PriceEntry is one row of the MOP reference list.
type PriceEntry struct {
	ItemCode string `json:"item_code"`
	MOP      string `json:"mop"`
}

// JoinedRow is a complaint extended with the MOP of its matching price entry.
// MOP is nil when no price entry matched.
type JoinedRow struct {
	Complaint
	MOP *string `json:"mop,omitempty"`
}

// CleanRow is a joined row whose MOP, Days and Branch are all present
// and numeric where required.
type CleanRow struct {
	Branch        string  `json:"branch" validate:"required"`
	Brand         string  `json:"brand,omitempty"`
	ComplaintMode string  `json:"complaint_mode,omitempty"`
	MOP           float64 `json:"mop"`
	Days          float64 `json:"days"`
}

// BranchSummary is one aggregate row of the report.
type BranchSummary struct {
	Branch               string  `json:"branch"`
	SumOfMOP             float64 `json:"sum_of_mop"`
	AverageOfDays        float64 `json:"average_of_days"`
	CountOfComplaintMode int     `json:"count_of_complaint_mode"`
}

// BranchReport is the aggregate table of one pipeline run, ordered by
// SumOfMOP descending.
type BranchReport struct {
	Brand string          `json:"brand"`
	Rows  []BranchSummary `json:"rows"`
}

// DisplayRow is a BranchSummary with its numeric cells formatted for display.
type DisplayRow struct {
	Branch               string `json:"branch"`
	SumOfMOP             string `json:"sum_of_mop"`
	AverageOfDays        string `json:"average_of_days"`
	CountOfComplaintMode int    `json:"count_of_complaint_mode"`
}
