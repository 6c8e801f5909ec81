package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on sheet name length, in characters.
const maxSheetName = 31

// WriteXLSX writes one worksheet per table. Float cells stay numeric and
// Options.Precision becomes the cell number format.
func WriteXLSX(w io.Writer, doc Document, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	numeric := 0
	if opts.Precision >= 0 {
		numFmt := numberFormat(opts.Precision)
		numeric, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
		if err != nil {
			return fmt.Errorf("creating number style: %w", err)
		}
	}

	used := make(map[string]bool, len(doc.Tables))
	for i, t := range doc.Tables {
		name := sheetName(t, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, t, bold, numeric); err != nil {
			return fmt.Errorf("writing sheet %q: %w", name, err)
		}
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, t Table, bold, numeric int) error {
	if err := f.SetCellValue(sheet, "A1", t.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}

	for col, h := range t.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+3)
			if err != nil {
				return err
			}
			if b, ok := v.(bool); ok {
				v = formatCell(b, 0)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if numeric != 0 && isNumeric(v) {
				if err := f.SetCellStyle(sheet, cell, cell, numeric); err != nil {
					return err
				}
			}
		}
	}

	return f.SetColWidth(sheet, "A", "B", 28)
}

// numberFormat returns an Excel format code such as "0.00".
func numberFormat(precision int) string {
	if precision == 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", precision)
}

func sheetName(t Table, i int, used map[string]bool) string {
	name := t.Sheet
	if name == "" {
		name = t.Title
	}
	if name == "" {
		name = fmt.Sprintf("Table%d", i+1)
	}
	name = truncateRunes(name, maxSheetName)
	base := name
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
