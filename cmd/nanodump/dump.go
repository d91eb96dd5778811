package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/nanometa/dump"
	"github.com/skdltmxn/nanometa/internal/config"
)

var (
	dumpFormat string
	dumpJobs   int
)

var dumpCmd = &cobra.Command{
	Use:   "dump <snapshot>",
	Short: "Dump all metadata tables",
	Long: `Dump assembly references, type references, type definitions, custom
attributes and user strings of a module.

Supported formats:
  - text: Human-readable text (default)
  - json: JSON format
  - msgpack: MessagePack records`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "", "output format (text, json, msgpack); overrides the configuration")
	dumpCmd.Flags().IntVarP(&dumpJobs, "jobs", "j", -1, "type definitions encoded in parallel (0 = GOMAXPROCS); overrides the configuration")
}

func runDump(cmd *cobra.Command, args []string) error {
	m, err := openSnapshot(args[0])
	if err != nil {
		return err
	}

	opts := dumpOptions()
	if dumpJobs >= 0 {
		opts.Jobs = dumpJobs
	}
	format := cfg.Dump.Format
	if dumpFormat != "" {
		format = dumpFormat
	}

	table, err := dump.New(m, opts).Dump(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to dump %s: %w", m.Name, err)
	}

	switch format {
	case config.FormatText:
		return dump.WriteText(output, table)
	case config.FormatJSON:
		return dump.WriteJSON(output, table)
	case config.FormatMsgpack:
		return dump.WriteMsgpack(output, table)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
