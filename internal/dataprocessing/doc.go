// Package dataprocessing turns the complaint log and the MOP price list into
// the per-branch complaint report.
//
// # Pipeline
//
// One run is a single synchronous pass:
//
//	LoadComplaints, LoadPriceList → Join → Clean → FilterByBrand → Aggregate
//
// Loaders read the first sheet of each workbook with raw cell values and map
// columns by header name. Join is a left join on "Item Code". Clean parses
// MOP and Days and drops rows where either is not a finite number or where
// Branch is blank. Aggregate groups by branch and orders the result by the
// sum of MOP, descending.
//
// Prepare and Prepared.Summarize bundle the steps for callers that compute
// the brand options once and then summarize for a selected brand.
//
// # Error Handling
//
// Loader failures are *errors.AppError values of type PARSING naming the
// offending source. Aggregate returns ErrNoData when nothing is left to
// group; callers report it as information rather than as a failure.
package dataprocessing
