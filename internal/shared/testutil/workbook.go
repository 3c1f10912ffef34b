package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ComplaintHeaders is the header row of a minimal complaint log.
var ComplaintHeaders = []string{"Item Code", "Branch", "Complaint Mode", "Days", "Brand"}

// PriceListHeaders is the header row of a minimal MOP list, spelled the way
// the source file spells it.
var PriceListHeaders = []string{"Item code", "MOP"}

// BuildWorkbook writes headers and rows to the first sheet of a new
// workbook and returns its bytes. A nil cell is left empty.
func BuildWorkbook(t testing.TB, headers []string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	writeRow := func(rowNum int, values []interface{}) {
		for i, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	writeRow(1, header)
	for i, row := range rows {
		writeRow(i+2, row)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// ScenarioComplaints is the two-row complaint log of the reference scenario:
// branch A, days 3 and 5, brand X.
func ScenarioComplaints(t testing.TB) []byte {
	return BuildWorkbook(t, ComplaintHeaders, [][]interface{}{
		{1, "A", "call", "3", "X"},
		{2, "A", "call", "5", "X"},
	})
}

// ScenarioPriceList prices item 1 at 100 and item 2 at 200.
func ScenarioPriceList(t testing.TB) []byte {
	return BuildWorkbook(t, PriceListHeaders, [][]interface{}{
		{1, 100},
		{2, 200},
	})
}

// Reader wraps workbook bytes for the loaders.
func Reader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
