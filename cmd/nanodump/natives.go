package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/nanometa/dump"
)

var nativesType string

var nativesCmd = &cobra.Command{
	Use:   "natives <snapshot>",
	Short: "List native stub signatures",
	Long: `Project every method signature onto the C types and runtime macros a
native implementation stub would use. Types without a native projection
are shown as UNSUPPORTED.`,
	Args: cobra.ExactArgs(1),
	RunE: runNatives,
}

func init() {
	nativesCmd.Flags().StringVarP(&nativesType, "type", "t", "", "only list methods of types whose full name contains this text")
}

func runNatives(cmd *cobra.Command, args []string) error {
	m, err := openSnapshot(args[0])
	if err != nil {
		return err
	}

	stubs, err := dump.NativeStubs(m)
	if err != nil {
		return fmt.Errorf("failed to project natives: %w", err)
	}
	if nativesType != "" {
		filtered := stubs[:0]
		for _, s := range stubs {
			if strings.Contains(s.Type, nativesType) {
				filtered = append(filtered, s)
			}
		}
		stubs = filtered
	}

	return dump.WriteNatives(output, stubs)
}
