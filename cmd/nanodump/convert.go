package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/nanometa/snapshot"
)

var convertFormat string

var convertCmd = &cobra.Command{
	Use:   "convert <snapshot> <target>",
	Short: "Convert a snapshot between JSON and msgpack",
	Long: `Read a snapshot and write it back in another serialization.

The target format is inferred from the target extension (.json, .msgpack,
.mpk) unless --to is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFormat, "to", "", "target format (json, msgpack)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	m, err := openSnapshot(args[0])
	if err != nil {
		return err
	}

	var format snapshot.Format
	if convertFormat != "" {
		format, err = snapshot.ParseFormat(convertFormat)
	} else {
		format, err = snapshot.FormatFromPath(args[1])
	}
	if err != nil {
		return err
	}

	if err := snapshot.Save(args[1], m, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}
	fmt.Fprintf(output, "Wrote %s (%s)\n", args[1], format)
	return nil
}
