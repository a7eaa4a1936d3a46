package output

import (
	"encoding/json"
	"io"

	"qfilt/pkg/api"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r api.ReportV1) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
