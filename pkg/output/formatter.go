// Package output renders matched records.
//
// Supported formats:
//   - JSON Lines: one JSON object per line, written as records arrive
//   - Table: an aligned text table, written when the formatter is flushed
//
// Example usage:
//
//	f, err := output.New("table", os.Stdout)
//	if err != nil {
//	    return err
//	}
//	for _, rec := range matched {
//	    f.Write(rec)
//	}
//	return f.Flush()
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// Formatter writes records in one output format.
type Formatter interface {
	// Write emits or buffers one record.
	Write(rec types.Record) error

	// Flush writes anything still buffered.
	Flush() error
}

// New returns the formatter for the named format ("jsonl" or "table").
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "", "jsonl", "json":
		return NewJSONFormatter(w), nil
	case "table":
		return NewTableFormatter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want jsonl or table)", format)
}

// Columns returns the sorted union of field names across recs.
func Columns(recs []types.Record) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range recs {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// FormatValue renders a value for a text cell or terminal line. Strings are
// unquoted, undefined is empty, and lists and maps are JSON.
func FormatValue(v types.Value) string {
	switch v.Type() {
	case types.TypeUndefined:
		return ""
	case types.TypeString:
		return v.AsString()
	case types.TypeList, types.TypeMap:
		b, err := v.MarshalJSON()
		if err != nil {
			return v.String()
		}
		return string(b)
	}
	return v.Literal()
}
