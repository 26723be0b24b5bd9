package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/sexpq/pkg/sexpr"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check QUERY",
		Short: "Parse a query and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().Bool("tree", false, "Print the syntax tree as JSON instead")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	node, err := sexpr.Parse(args[0])
	if err != nil {
		return err
	}

	if tree, _ := cmd.Flags().GetBool("tree"); tree {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(sexpr.Tree(node))
	}
	fmt.Fprintln(cmd.OutOrStdout(), sexpr.Format(node))
	return nil
}
