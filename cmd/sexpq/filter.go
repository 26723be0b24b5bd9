package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/sexpq/pkg/output"
	"github.com/lemonberrylabs/sexpq/pkg/records"
	"github.com/lemonberrylabs/sexpq/pkg/sexpr"
	"github.com/lemonberrylabs/sexpq/pkg/types"
)

func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter QUERY [FILE...]",
		Short: "Print the records for which a query is true",
		Long: `filter evaluates QUERY against every record of every FILE, one record at a
time, and prints the records for which it is true. Formats are detected from
file extensions (.json, .jsonl, .ndjson, .yaml, .yml, optionally followed by
.gz or .zst). With no FILE, or when FILE is -, JSON Lines are read from
standard input.`,
		Example: `  sexpq filter '(> x 0)' events.jsonl
  sexpq filter --format table '(includes name "Doe")' people.yaml.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFilter,
	}
	cmd.Flags().String("format", "jsonl", "Output format: jsonl or table")
	cmd.Flags().String("input-format", "", "Force the input format: json, jsonl or yaml")
	cmd.Flags().Bool("invert", false, "Print the records for which the query is false")
	cmd.Flags().Bool("strict", false, "Fail on the first evaluation error instead of skipping the record")
	return cmd
}

type filterOptions struct {
	invert bool
	strict bool
	format records.Format
}

// filterStats counts what happened to the records read.
type filterStats struct {
	read    int
	matched int
	skipped int
}

func runFilter(cmd *cobra.Command, args []string) error {
	node, err := sexpr.Parse(args[0])
	if err != nil {
		return err
	}

	var opts filterOptions
	opts.invert, _ = cmd.Flags().GetBool("invert")
	opts.strict, _ = cmd.Flags().GetBool("strict")
	if name, _ := cmd.Flags().GetString("input-format"); name != "" {
		if opts.format, err = records.ParseFormat(name); err != nil {
			return err
		}
	}

	formatName, _ := cmd.Flags().GetString("format")
	out, err := output.New(formatName, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}

	var stats filterStats
	for _, path := range files {
		if err := filterFile(node, path, opts, out, &stats); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}
	if stats.skipped > 0 {
		log.Printf("Matched %d of %d records, skipped %d with evaluation errors", stats.matched, stats.read, stats.skipped)
	}
	return nil
}

func filterFile(node sexpr.Node, path string, opts filterOptions, out output.Formatter, stats *filterStats) error {
	r, err := openRecords(path, opts.format)
	if err != nil {
		return err
	}
	defer r.Close()

	for n := 1; ; n++ {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		stats.read++

		keep, err := matches(node, rec)
		if err != nil {
			if opts.strict {
				return fmt.Errorf("%s: record %d: %w", path, n, err)
			}
			stats.skipped++
			log.Printf("Skipping record %d in %s: %v", n, path, err)
			continue
		}
		if keep == opts.invert {
			continue
		}
		stats.matched++
		if err := out.Write(rec); err != nil {
			return err
		}
	}
}

// openRecords opens path, letting an explicit format override the one
// detected from the file name.
func openRecords(path string, format records.Format) (records.Reader, error) {
	if format == "" {
		return records.Open(path)
	}
	_, comp := records.Detect(path)
	var rc io.ReadCloser = io.NopCloser(os.Stdin)
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open records: %w", err)
		}
		rc = f
	}
	r, err := records.NewReader(rc, format, comp)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// matches evaluates node against rec. A non-boolean result is an error.
func matches(node sexpr.Node, rec types.Record) (bool, error) {
	result, err := sexpr.EvaluateRecord(node, rec)
	if err != nil {
		return false, err
	}
	if result.Type() != types.TypeBool {
		return false, types.NewTypeError(fmt.Sprintf("query result is %s, not bool", result.Type()))
	}
	return result.AsBool(), nil
}
