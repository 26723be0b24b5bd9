package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

func sampleRecords() []types.Record {
	return []types.Record{
		types.RecordFromGo(map[string]interface{}{"name": "John Doe", "x": 1}),
		types.RecordFromGo(map[string]interface{}{"name": "Jane <J>", "tags": []interface{}{"a", "b"}}),
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)
	for _, rec := range sampleRecords() {
		if err := f.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}

	want := `{"name":"John Doe","x":1}` + "\n" + `{"name":"Jane <J>","tags":["a","b"]}` + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	for _, rec := range sampleRecords() {
		if err := f.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if buf.Len() != 0 {
		t.Fatal("table written before Flush")
	}
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 4 {
		t.Fatalf("table too short:\n%s", out)
	}
	header := lines[1]
	if !(strings.Index(header, "name") < strings.Index(header, "tags") && strings.Index(header, "tags") < strings.Index(header, "x")) {
		t.Errorf("header %q, want sorted columns name, tags, x", header)
	}
	for _, want := range []string{"John Doe", "Jane <J>", `["a","b"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("got %q, want no output", buf.String())
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "jsonl", "table"} {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for xml")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    types.Value
		want string
	}{
		{types.Undefined, ""},
		{types.Null, "null"},
		{types.NewString("plain"), "plain"},
		{types.NewInt(3), "3"},
		{types.NewDouble(0.5), "0.5"},
		{types.NewBool(false), "false"},
		{types.NewList([]types.Value{types.NewInt(1), types.NewString("a")}), `[1,"a"]`},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
