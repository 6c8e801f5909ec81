package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes each table as a title line, a header line and its rows.
// Tables are separated by an empty record.
func WriteCSV(w io.Writer, doc Document, opts Options) error {
	cw := csv.NewWriter(w)

	for i, t := range doc.Tables {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{t.Title}); err != nil {
			return err
		}
		if err := cw.Write(t.Header); err != nil {
			return err
		}
		for _, row := range t.Rows {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = formatCell(v, opts.Precision)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
