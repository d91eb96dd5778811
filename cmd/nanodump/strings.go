package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/nanometa/dump"
)

var stringsFresh bool

var stringsCmd = &cobra.Command{
	Use:   "strings <snapshot>",
	Short: "List the string table",
	Long: `List the string table built while dumping the module.

By default every entry is shown, preallocated strings included.
Use --fresh to list only the strings interned from IL literals.`,
	Args: cobra.ExactArgs(1),
	RunE: runStrings,
}

func init() {
	stringsCmd.Flags().BoolVar(&stringsFresh, "fresh", false, "only list strings interned past the preallocated range")
}

func runStrings(cmd *cobra.Command, args []string) error {
	m, err := openSnapshot(args[0])
	if err != nil {
		return err
	}

	d := dump.New(m, dumpOptions())
	table, err := d.Dump(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to dump %s: %w", m.Name, err)
	}

	entries := d.StringTable()
	if stringsFresh {
		entries = table.UserStrings
	}

	fmt.Fprintf(output, "%-10s %s\n", "TOKEN", "CONTENT")
	for _, e := range entries {
		fmt.Fprintf(output, "%-10s %q\n", e.ReferenceID, e.Content)
	}
	fmt.Fprintf(output, "\nTotal: %d string(s)\n", len(entries))
	return nil
}
