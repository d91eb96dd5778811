// Package config loads nanodump settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/skdltmxn/nanometa/internal/attr"
)

// FileName is the configuration file looked up when none is given.
const FileName = "nanodump.toml"

// Output formats understood by the dump command.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the decoded configuration file.
type Config struct {
	Strings StringsConfig `toml:"strings"`
	Exclude ExcludeConfig `toml:"exclude"`
	Ignore  IgnoreConfig  `toml:"ignore"`
	Dump    DumpConfig    `toml:"dump"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// StringsConfig seeds the string table.
type StringsConfig struct {
	// Preallocated strings take the ids right after the empty string.
	Preallocated []string `toml:"preallocated"`
}

// ExcludeConfig lists attribute namespaces dropped from the dump.
type ExcludeConfig struct {
	Namespaces []string `toml:"namespaces"`
}

// IgnoreConfig lists attribute types whose arguments are not flattened.
type IgnoreConfig struct {
	Attributes []string `toml:"attributes"`
}

// DumpConfig controls the orchestrator.
type DumpConfig struct {
	// Jobs bounds parallel type encoding; 0 picks GOMAXPROCS.
	Jobs   int    `toml:"jobs"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Exclude: ExcludeConfig{
			Namespaces: []string{"System.Diagnostics.CodeAnalysis"},
		},
		Ignore: IgnoreConfig{
			Attributes: slices.Clone(defaultIgnored),
		},
		Dump: DumpConfig{Format: FormatText},
	}
}

var defaultIgnored = []string{
	"System.CLSCompliantAttribute",
	"System.Diagnostics.DebuggableAttribute",
	"System.Diagnostics.DebuggerBrowsableAttribute",
	"System.Diagnostics.DebuggerDisplayAttribute",
	"System.Diagnostics.DebuggerHiddenAttribute",
	"System.Diagnostics.DebuggerNonUserCodeAttribute",
	"System.Diagnostics.DebuggerStepThroughAttribute",
	"System.ParamArrayAttribute",
	"System.Reflection.AssemblyCultureAttribute",
	"System.Reflection.AssemblyDescriptionAttribute",
	"System.Reflection.AssemblyFileVersionAttribute",
	"System.Reflection.AssemblyInformationalVersionAttribute",
	"System.Reflection.AssemblyTitleAttribute",
	"System.Runtime.CompilerServices.AccessedThroughPropertyAttribute",
	"System.Runtime.CompilerServices.CompilationRelaxationsAttribute",
	"System.Runtime.CompilerServices.CompilerGeneratedAttribute",
	"System.Runtime.CompilerServices.ExtensionAttribute",
	"System.Runtime.CompilerServices.IsReadOnlyAttribute",
	"System.Runtime.CompilerServices.RuntimeCompatibilityAttribute",
	"System.Runtime.InteropServices.ComVisibleAttribute",
	"System.Runtime.InteropServices.GuidAttribute",
	"System.Runtime.Versioning.TargetFrameworkAttribute",
}

// Load reads path over the defaults. Tables missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	if md.IsDefined("dump", "format") {
		cfg.Dump.Format = strings.ToLower(strings.TrimSpace(cfg.Dump.Format))
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path when given; otherwise it looks for FileName from
// startDir upwards and falls back to the defaults.
func Resolve(path, startDir string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	found, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(found)
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Dump.Jobs < 0 {
		return fmt.Errorf("%w: [dump].jobs must not be negative, got %d", ErrInvalidConfig, c.Dump.Jobs)
	}
	switch c.Dump.Format {
	case FormatText, FormatJSON, FormatMsgpack:
	default:
		return fmt.Errorf("%w: [dump].format %q is not one of text, json, msgpack", ErrInvalidConfig, c.Dump.Format)
	}
	for _, ns := range c.Exclude.Namespaces {
		if strings.TrimSpace(ns) == "" {
			return fmt.Errorf("%w: [exclude].namespaces contains an empty entry", ErrInvalidConfig)
		}
	}
	return nil
}

// Filter builds the attribute filter the dump applies.
func (c Config) Filter() attr.Filter {
	return attr.Filter{
		Namespaces: slices.Clone(c.Exclude.Namespaces),
		Ignored:    slices.Clone(c.Ignore.Attributes),
	}
}
