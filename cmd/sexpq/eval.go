package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"

	"github.com/lemonberrylabs/sexpq/pkg/records"
	"github.com/lemonberrylabs/sexpq/pkg/sexpr"
	"github.com/lemonberrylabs/sexpq/pkg/types"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval QUERY",
		Short: "Evaluate a query against one record and print the result",
		Example: `  sexpq eval '(> x 0)' --record '{"x": 1}'
  sexpq eval '(includes name "Doe")' --record-file person.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runEval,
	}
	cmd.Flags().String("record", "", "Record as a JSON object")
	cmd.Flags().String("record-file", "", "File holding the record (first record is used)")
	cmd.MarkFlagsMutuallyExclusive("record", "record-file")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	node, err := sexpr.Parse(args[0])
	if err != nil {
		return err
	}

	rec, err := evalRecord(cmd)
	if err != nil {
		return err
	}

	result, err := sexpr.EvaluateRecord(node, rec)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
	return nil
}

func evalRecord(cmd *cobra.Command) (types.Record, error) {
	if raw, _ := cmd.Flags().GetString("record"); raw != "" {
		v, err := fastjson.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --record: %w", err)
		}
		rec, err := types.RecordFromMap(types.FromFastJSON(v))
		if err != nil {
			return nil, fmt.Errorf("invalid --record: %w", err)
		}
		return rec, nil
	}

	if path, _ := cmd.Flags().GetString("record-file"); path != "" {
		r, err := records.Open(path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: no records", path)
		}
		return rec, err
	}

	return types.Record{}, nil
}

// renderResult prints JSON for defined values and "undefined" otherwise.
func renderResult(v types.Value) string {
	if v.IsUndefined() {
		return "undefined"
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return v.String()
	}
	return string(b)
}
