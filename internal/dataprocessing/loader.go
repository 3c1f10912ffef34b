package dataprocessing

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "complaintreport/internal/errors"
	"complaintreport/pkg/contracts/domain"
)

// Source names used in parse errors.
const (
	SourceComplaints = "complaints"
	SourcePriceList  = "MOP list"
)

var complaintColumns = []string{
	domain.ColumnItemCode,
	domain.ColumnBranch,
	domain.ColumnComplaintMode,
	domain.ColumnDays,
	domain.ColumnBrand,
}

var priceListColumns = []string{
	domain.ColumnItemCode,
	domain.ColumnMOP,
}

// LoadComplaints reads the complaint log from the first sheet of an xlsx
// stream. Columns other than the ones the report uses are kept in Extra.
func LoadComplaints(r io.Reader) ([]domain.Complaint, error) {
	table, err := readTable(r, SourceComplaints, nil)
	if err != nil {
		return nil, err
	}
	if err := table.require(SourceComplaints, complaintColumns); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(complaintColumns))
	for _, name := range complaintColumns {
		known[name] = true
	}

	complaints := make([]domain.Complaint, 0, len(table.rows))
	for _, row := range table.rows {
		c := domain.Complaint{
			ItemCode:      table.cell(row, domain.ColumnItemCode),
			Branch:        table.cell(row, domain.ColumnBranch),
			ComplaintMode: table.cell(row, domain.ColumnComplaintMode),
			Brand:         table.cell(row, domain.ColumnBrand),
			Days:          table.cell(row, domain.ColumnDays),
		}
		for _, name := range table.headers {
			if name == "" || known[name] {
				continue
			}
			if v := table.cell(row, name); v != "" {
				if c.Extra == nil {
					c.Extra = make(map[string]string)
				}
				c.Extra[name] = v
			}
		}
		complaints = append(complaints, c)
	}
	return complaints, nil
}

// LoadPriceList reads the MOP reference list from the first sheet of an
// xlsx stream. The header "Item code" is renamed to "Item Code" so it joins
// against the complaint log.
func LoadPriceList(r io.Reader) ([]domain.PriceEntry, error) {
	rename := map[string]string{domain.ColumnPriceListItemCode: domain.ColumnItemCode}
	table, err := readTable(r, SourcePriceList, rename)
	if err != nil {
		return nil, err
	}
	if err := table.require(SourcePriceList, priceListColumns); err != nil {
		return nil, err
	}

	entries := make([]domain.PriceEntry, 0, len(table.rows))
	for _, row := range table.rows {
		entries = append(entries, domain.PriceEntry{
			ItemCode: table.cell(row, domain.ColumnItemCode),
			MOP:      table.cell(row, domain.ColumnMOP),
		})
	}
	return entries, nil
}

// table is the first sheet of a workbook split into a header and data rows.
type table struct {
	headers []string
	columns map[string]int
	rows    [][]string
}

func readTable(r io.Reader, source string, rename map[string]string) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s is not a readable xlsx workbook", source), err).
			WithContext("source", source)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s workbook has no sheets", source), nil).
			WithContext("source", source)
	}

	// Raw values keep numbers as stored instead of as displayed.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q of %s", sheets[0], source), err).
			WithContext("source", source)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %q of %s is empty", sheets[0], source), nil).
			WithContext("source", source)
	}

	t := &table{
		headers: make([]string, len(rows[0])),
		columns: make(map[string]int, len(rows[0])),
	}
	for i, h := range rows[0] {
		name := strings.TrimSpace(h)
		if renamed, ok := rename[name]; ok {
			name = renamed
		}
		t.headers[i] = name
		if _, dup := t.columns[name]; name != "" && !dup {
			t.columns[name] = i
		}
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func (t *table) require(source string, names []string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewParsingError(
			fmt.Sprintf("%s is missing required column(s): %s", source, strings.Join(missing, ", ")), nil).
			WithContext("source", source).
			WithContext("missing_columns", missing)
	}
	return nil
}

// cell returns the trimmed value of the named column; short rows yield "".
func (t *table) cell(row []string, name string) string {
	idx, ok := t.columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
