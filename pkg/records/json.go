package records

import (
	"bufio"
	"fmt"
	"io"

	"github.com/valyala/fastjson"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 16 << 20

// jsonReader holds a whole JSON document: a single object or an array of
// objects.
type jsonReader struct {
	src   io.Closer
	items []*fastjson.Value
	next  int
}

func newJSONReader(src io.ReadCloser) (*jsonReader, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("read json: %w", err)
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	r := &jsonReader{src: src}
	if v.Type() == fastjson.TypeArray {
		r.items, _ = v.Array()
	} else {
		r.items = []*fastjson.Value{v}
	}
	return r, nil
}

func (r *jsonReader) Next() (types.Record, error) {
	if r.next >= len(r.items) {
		return nil, io.EOF
	}
	i := r.next
	r.next++
	return toRecord(types.FromFastJSON(r.items[i]), fmt.Sprintf("record %d", i))
}

func (r *jsonReader) Close() error {
	return r.src.Close()
}

// jsonlReader decodes one object per line. Blank lines are skipped.
type jsonlReader struct {
	src     io.Closer
	scanner *bufio.Scanner
	parser  fastjson.Parser
	line    int
}

func newJSONLReader(src io.ReadCloser) *jsonlReader {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &jsonlReader{src: src, scanner: sc}
}

func (r *jsonlReader) Next() (types.Record, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if isBlank(line) {
			continue
		}
		v, err := r.parser.ParseBytes(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", r.line, err)
		}
		return toRecord(types.FromFastJSON(v), fmt.Sprintf("line %d", r.line))
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return nil, io.EOF
}

func (r *jsonlReader) Close() error {
	return r.src.Close()
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}
