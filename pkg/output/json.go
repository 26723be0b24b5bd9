package output

import (
	"encoding/json"
	"io"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// JSONFormatter outputs records as JSON Lines with keys sorted.
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONFormatter{encoder: enc}
}

// Write encodes rec on its own line.
func (j *JSONFormatter) Write(rec types.Record) error {
	return j.encoder.Encode(map[string]types.Value(rec))
}

// Flush is a no-op; every record is written by Write.
func (j *JSONFormatter) Flush() error {
	return nil
}
