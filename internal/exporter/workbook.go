package exporter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"complaintreport/pkg/contracts/domain"
)

const (
	// SheetName is the name of the only sheet in a report workbook.
	SheetName = "Report"

	// XLSXContentType is the MIME type of a report workbook.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerFill  = "0078D7"
	evenRowFill = "F2F6FB"
	oddRowFill  = "FFFFFF"

	columnPadding = 2
)

// ReportFilename is the download name of the report for brand. Path
// separators and characters Windows rejects in file names are replaced with
// underscores, so the name never leaves the output directory.
func ReportFilename(brand string) string {
	return fmt.Sprintf("Complaint_Report_%s.xlsx", filenamePart(brand))
}

func filenamePart(brand string) string {
	part := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(brand))
	for strings.Contains(part, "..") {
		part = strings.ReplaceAll(part, "..", "_")
	}
	part = strings.Trim(part, ". ")
	if part == "" {
		return domain.AllBrands
	}
	return part
}

// cellKind selects the number format of a body cell.
type cellKind int

const (
	kindText cellKind = iota
	kindInt
	kindFloat
)

// bodyCell is one data cell with the text its column width is measured by.
type bodyCell struct {
	value interface{}
	kind  cellKind
	text  string
}

// reportStyles holds the style ids of one workbook, indexed by data row
// parity and cell kind.
type reportStyles struct {
	header int
	body   [2][3]int
}

// bodyStyle takes the 1-based data row number; the header is not counted.
func (s *reportStyles) bodyStyle(dataRow int, kind cellKind) int {
	return s.body[dataRow%2][kind]
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func newReportStyles(f *excelize.File) (*reportStyles, error) {
	styles := &reportStyles{}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	styles.header = header

	floatFmt := "0.0"
	fills := [2]string{evenRowFill, oddRowFill}
	for parity, fill := range fills {
		for _, kind := range []cellKind{kindText, kindInt, kindFloat} {
			style := &excelize.Style{
				Fill:   excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
				Border: thinBorder(),
			}
			switch kind {
			case kindInt:
				style.NumFmt = 1 // "0"
			case kindFloat:
				style.CustomNumFmt = &floatFmt
			}
			id, err := f.NewStyle(style)
			if err != nil {
				return nil, fmt.Errorf("failed to create body style: %w", err)
			}
			styles.body[parity][kind] = id
		}
	}
	return styles, nil
}

// WriteWorkbook renders report as a styled xlsx document held in memory.
//
// The header row is bold white on blue. Body rows alternate fills: the
// first data row is white, the second light blue, and so on. Whole numbers use the "0"
// format; other values are rounded to one decimal and use "0.0". Each
// column is as wide as its longest header or value text plus padding.
func WriteWorkbook(report *domain.BranchReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newReportStyles(f)
	if err != nil {
		return nil, err
	}

	headers := domain.ReportHeaders()
	widths := make([]int, len(headers))
	for col, h := range headers {
		if err := setCell(f, col+1, 1, h, styles.header); err != nil {
			return nil, err
		}
		widths[col] = utf8.RuneCountInString(h)
	}

	for i, summary := range report.Rows {
		dataRow := i + 1
		cells := []bodyCell{
			{value: summary.Branch, kind: kindText, text: summary.Branch},
			numberCell(summary.SumOfMOP),
			numberCell(summary.AverageOfDays),
			{value: summary.CountOfComplaintMode, kind: kindInt, text: strconv.Itoa(summary.CountOfComplaintMode)},
		}
		for col, c := range cells {
			if err := setCell(f, col+1, dataRow+1, c.value, styles.bodyStyle(dataRow, c.kind)); err != nil {
				return nil, err
			}
			if n := utf8.RuneCountInString(c.text); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, float64(w+columnPadding)); err != nil {
			return nil, fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}

// numberCell picks the stored value and format of a float column. The width
// text is taken from the unrounded value.
func numberCell(v float64) bodyCell {
	c := bodyCell{value: v, kind: kindInt, text: valueString(v)}
	if !IsWhole(v) {
		c.value = RoundOne(v)
		c.kind = kindFloat
	}
	return c
}

func setCell(f *excelize.File, col, row int, value interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", cell, err)
	}
	if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
		return fmt.Errorf("failed to style %s: %w", cell, err)
	}
	return nil
}
