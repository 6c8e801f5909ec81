package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects a writer.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatPDF   Format = "pdf"
	FormatJSON  Format = "json"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTable, FormatCSV, FormatXLSX, FormatPDF, FormatJSON}
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX || f == FormatPDF
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	if f == FormatTable {
		return "txt"
	}
	return string(f)
}

// DefaultPrecision is the number of decimals shown unless configured otherwise.
const DefaultPrecision = 2

// Options control rendering.
type Options struct {
	// Precision is the number of decimals for float cells. Negative means full precision.
	Precision int
}

// DefaultOptions returns two-decimal rendering.
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision}
}

// Write renders doc in the given format.
func Write(w io.Writer, f Format, doc Document, opts Options) error {
	switch f {
	case FormatTable:
		return WriteText(w, doc, opts)
	case FormatCSV:
		return WriteCSV(w, doc, opts)
	case FormatXLSX:
		return WriteXLSX(w, doc, opts)
	case FormatPDF:
		return WritePDF(w, doc, opts)
	case FormatJSON:
		return WriteJSON(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// formatCell renders a cell value as text.
func formatCell(v any, precision int) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', precision, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(x)
	}
}

func isNumeric(v any) bool {
	_, ok := v.(float64)
	return ok
}
