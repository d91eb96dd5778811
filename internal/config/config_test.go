package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"System.Diagnostics.CodeAnalysis"}, cfg.Exclude.Namespaces)
	assert.Contains(t, cfg.Ignore.Attributes, "System.Runtime.CompilerServices.CompilerGeneratedAttribute")
	assert.Equal(t, FormatText, cfg.Dump.Format)
	assert.Zero(t, cfg.Dump.Jobs)
	assert.Empty(t, cfg.Path)
	require.NoError(t, cfg.Validate())
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Ignore.Attributes[0] = "changed"

	b := Default()
	assert.NotEqual(t, "changed", b.Ignore.Attributes[0])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[strings]
preallocated = ["Foo", "Bar"]

[ignore]
attributes = ["My.IgnoredAttribute"]

[dump]
jobs = 4
format = " JSON "
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo", "Bar"}, cfg.Strings.Preallocated)
	assert.Equal(t, []string{"My.IgnoredAttribute"}, cfg.Ignore.Attributes)
	// [exclude] is absent and keeps its default
	assert.Equal(t, []string{"System.Diagnostics.CodeAnalysis"}, cfg.Exclude.Namespaces)
	assert.Equal(t, 4, cfg.Dump.Jobs)
	assert.Equal(t, FormatJSON, cfg.Dump.Format)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{name: "syntax", body: "[dump\njobs = 1"},
		{name: "unknown key", body: "[dump]\nthreads = 2", invalid: true},
		{name: "negative jobs", body: "[dump]\njobs = -1", invalid: true},
		{name: "bad format", body: "[dump]\nformat = \"xml\"", invalid: true},
		{name: "empty namespace", body: "[exclude]\nnamespaces = [\"\"]", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("defaults when no file exists", func(t *testing.T) {
		cfg, err := Resolve("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default().Ignore, cfg.Ignore)
	})

	t.Run("finds file in parent directory", func(t *testing.T) {
		root := t.TempDir()
		path := writeConfig(t, root, "[dump]\njobs = 2\n")
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		cfg, err := Resolve("", nested)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Dump.Jobs)
		assert.Equal(t, path, cfg.Path)
	})

	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "[dump]\nformat = \"msgpack\"\n")
		cfg, err := Resolve(path, "")
		require.NoError(t, err)
		assert.Equal(t, FormatMsgpack, cfg.Dump.Format)
	})

	t.Run("explicit missing path", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "missing.toml"), "")
		assert.Error(t, err)
	})
}

func TestFilter(t *testing.T) {
	cfg := Default()
	cfg.Exclude.Namespaces = []string{"Vendor.Internal"}
	cfg.Ignore.Attributes = []string{"Vendor.MarkerAttribute"}

	f := cfg.Filter()
	assert.False(t, f.Includes("Vendor.Internal.HiddenAttribute"))
	assert.True(t, f.Includes("Vendor.MarkerAttribute"))
	assert.False(t, f.FlattenArgs("Vendor.MarkerAttribute"))
	assert.True(t, f.FlattenArgs("Vendor.OtherAttribute"))
}
