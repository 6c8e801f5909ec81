package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText renders the tables as aligned plain text.
func WriteText(w io.Writer, doc Document, opts Options) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, t := range doc.Tables {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, t.Title)
		fmt.Fprintln(tw, strings.Join(t.Header, "\t"))

		rule := make([]string, len(t.Header))
		for j, h := range t.Header {
			rule[j] = strings.Repeat("-", len(h))
		}
		fmt.Fprintln(tw, strings.Join(rule, "\t"))

		for _, row := range t.Rows {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = formatCell(v, opts.Precision)
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
	}

	return tw.Flush()
}
