// Package records reads the records queries are evaluated against from JSON,
// JSON Lines and YAML documents, optionally gzip- or zstd-compressed.
//
// A Reader yields one record at a time; callers evaluate each record before
// asking for the next one:
//
//	r, err := records.Open("orders.jsonl.zst")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	for {
//	    rec, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package records

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// Format identifies a record document format.
type Format string

const (
	FormatJSON  Format = "json"  // one object, or an array of objects
	FormatJSONL Format = "jsonl" // one object per line
	FormatYAML  Format = "yaml"  // one or more documents, each an object or a sequence of objects
)

// Compression identifies a compression wrapper around a record document.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Reader yields records in document order. Next returns io.EOF after the
// last record.
type Reader interface {
	Next() (types.Record, error)
	Close() error
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown record format %q (want json, jsonl or yaml)", name)
}

// Detect infers the format and compression of a file from its extensions,
// e.g. "events.jsonl.gz" is gzip-compressed JSON Lines. Unknown extensions
// default to JSON Lines.
func Detect(path string) (Format, Compression) {
	name := strings.ToLower(filepath.Base(path))

	comp := CompressionNone
	switch ext := filepath.Ext(name); ext {
	case ".gz", ".gzip":
		comp = CompressionGzip
		name = strings.TrimSuffix(name, ext)
	case ".zst", ".zstd":
		comp = CompressionZstd
		name = strings.TrimSuffix(name, ext)
	}

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, comp
	case ".yaml", ".yml":
		return FormatYAML, comp
	}
	return FormatJSONL, comp
}

// Open opens the record file at path, detecting format and compression from
// its name. The path "-" reads JSON Lines from standard input.
func Open(path string) (Reader, error) {
	if path == "-" {
		return NewReader(io.NopCloser(os.Stdin), FormatJSONL, CompressionNone)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	format, comp := Detect(path)
	r, err := NewReader(f, format, comp)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// NewReader reads records of the given format from rc. Closing the returned
// Reader closes rc.
func NewReader(rc io.ReadCloser, format Format, comp Compression) (Reader, error) {
	src, err := decompress(rc, comp)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return newJSONReader(src)
	case FormatJSONL:
		return newJSONLReader(src), nil
	case FormatYAML:
		return newYAMLReader(src), nil
	}
	src.Close()
	return nil, fmt.Errorf("unsupported record format %q", format)
}

// ReadAll drains r and closes it.
func ReadAll(r Reader) ([]types.Record, error) {
	defer r.Close()
	var out []types.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func decompress(rc io.ReadCloser, comp Compression) (io.ReadCloser, error) {
	switch comp {
	case CompressionNone:
		return rc, nil
	case CompressionGzip:
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stackedCloser{Reader: dec, closers: []io.Closer{dec.IOReadCloser(), rc}}, nil
	}
	return nil, fmt.Errorf("unsupported compression %q", comp)
}

// stackedCloser closes a decompressor and then the underlying source.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// toRecord converts a decoded document value into a record.
func toRecord(v types.Value, where string) (types.Record, error) {
	rec, err := types.RecordFromMap(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return rec, nil
}
