package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/nanometa/meta"
	"github.com/skdltmxn/nanometa/snapshot"
)

func writeSnapshot(t *testing.T, dir string) string {
	t.Helper()
	tokObject := meta.MustToken(meta.TableTypeRef, 1)
	m := &meta.Module{
		Name:         "Cli",
		AssemblyRefs: []meta.AssemblyRef{{Name: "mscorlib"}},
		TypeRefs:     []meta.TypeRef{{Token: tokObject, Namespace: "System", Name: "Object"}},
		TypeDefs: []meta.TypeDef{
			{
				Token:     meta.MustToken(meta.TableTypeDef, 2),
				Namespace: "Cli",
				Name:      "Tool",
				BaseType:  tokObject,
				Methods: []meta.MethodDef{
					{
						Token:      meta.MustToken(meta.TableMethod, 1),
						Name:       "Run",
						ReturnType: meta.SystemType("Void"),
						Params:     []meta.Param{{Name: "count", Type: meta.SystemType("Int32")}},
						Body: &meta.MethodBody{
							Instructions: []meta.Instruction{
								{Offset: 0, OpCode: "ldstr", Operand: meta.Operand{Kind: meta.OperandString, String: "go"}},
								{Offset: 5, OpCode: "pop"},
								{Offset: 6, OpCode: "ret"},
							},
						},
					},
				},
			},
		},
	}

	path := filepath.Join(dir, "cli.json")
	require.NoError(t, snapshot.Save(path, m, snapshot.FormatJSON))
	return path
}

// run executes the root command with a fresh configuration file and
// returns what it wrote to the output file.
func run(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	conf := filepath.Join(dir, "nanodump.toml")
	require.NoError(t, os.WriteFile(conf, []byte("[dump]\njobs = 2\n"), 0o600))
	out := filepath.Join(dir, "out.txt")

	dumpFormat, dumpJobs, snapshotType = "", -1, ""
	rootCmd.SetArgs(append(args, "--config", conf, "--output", out))
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	return string(data)
}

func TestDumpCommand(t *testing.T) {
	path := writeSnapshot(t, t.TempDir())
	out := run(t, "dump", path)

	assert.Contains(t, out, "AssemblyRefProps [23000001]: Flags: 00000000 'mscorlib'\n")
	assert.Contains(t, out, "    MethodDefProps [06000001]: Flags: 00000000 Impl: 00000000 RVA: 00000000 'System.Void Cli.Tool::Run(System.Int32)' [VOID(I4)]\n")
	assert.Contains(t, out, "UserString [70000001]: 'go'\n")
}

func TestInfoCommand(t *testing.T) {
	path := writeSnapshot(t, t.TempDir())
	out := run(t, "info", path)

	assert.Contains(t, out, "Module: Cli\n")
	assert.Contains(t, out, "Methods: 1 (1 with body)\n")
}

func TestLookupCommand(t *testing.T) {
	path := writeSnapshot(t, t.TempDir())

	out := run(t, "lookup", path, "06000001")
	assert.Contains(t, out, "Name: System.Void Cli.Tool::Run(System.Int32)\n")
	assert.Contains(t, out, "Signature: VOID(I4)\n")
	assert.Contains(t, out, "Owner: Cli.Tool [02000002]\n")

	out = run(t, "lookup", path, "Tool")
	assert.Contains(t, out, "Found 1 match(es)")
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir)
	target := filepath.Join(dir, "cli.mpk")

	run(t, "convert", path, target)

	m, err := snapshot.Open(target)
	require.NoError(t, err)
	assert.Equal(t, "Cli", m.Name)
}
