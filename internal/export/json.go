package export

import (
	"io"

	json "github.com/goccy/go-json"
)

// WriteJSON encodes doc.Data with full precision.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc.Data)
}
