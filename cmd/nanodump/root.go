package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skdltmxn/nanometa/dump"
	"github.com/skdltmxn/nanometa/internal/config"
	"github.com/skdltmxn/nanometa/meta"
	"github.com/skdltmxn/nanometa/snapshot"
)

var (
	outputFile   string
	configFile   string
	snapshotType string
	verbose      bool

	output io.Writer
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nanodump",
	Short: "nanoFramework metadata dumper",
	Long: `nanodump renders the metadata tables of a .NET assembly the way the
nanoFramework metadata processor sees them: tokens, signatures, IL,
custom attributes and the string table.

Input is a metadata snapshot (JSON or msgpack) produced by an assembly reader.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			dump.SetLogger(l)
		}

		var err error
		if cfg, err = config.Resolve(configFile, "."); err != nil {
			return err
		}
		if cfg.Path != "" {
			dump.Logger().Debug("configuration loaded", zap.String("path", cfg.Path))
		}

		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
		_ = dump.Logger().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&snapshotType, "input-format", "", "snapshot format (json, msgpack); inferred from the extension when empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(stringsCmd)
	rootCmd.AddCommand(nativesCmd)
	rootCmd.AddCommand(convertCmd)
}

// openSnapshot reads the module named on the command line.
func openSnapshot(path string) (*meta.Module, error) {
	var (
		m   *meta.Module
		err error
	)
	if snapshotType != "" {
		format, ferr := snapshot.ParseFormat(snapshotType)
		if ferr != nil {
			return nil, ferr
		}
		m, err = snapshot.OpenFormat(path, format)
	} else {
		m, err = snapshot.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	return m, nil
}

// dumpOptions maps the configuration onto the dumper.
func dumpOptions() dump.Options {
	return dump.Options{
		Filter:       cfg.Filter(),
		Preallocated: cfg.Strings.Preallocated,
		Jobs:         cfg.Dump.Jobs,
	}
}
