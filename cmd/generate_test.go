package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const zooModel = `
modules:
  - name: Zoo
    classes:
      - name: Animal
        style: plain
        properties:
          - name: name
            type: string
`

func writeZoo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zoo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(zooModel), 0o644))
	return path
}

func TestGenerateCommand_Flags(t *testing.T) {
	in := writeZoo(t)
	out := filepath.Join(t.TempDir(), "out")

	c := NewGenerateCommand()
	c.SetArgs([]string{"--model", in, "--out-dir", out, "--mode", "classes", "--emit", "properties"})
	require.NoError(t, c.Execute())

	data, err := os.ReadFile(filepath.Join(out, "models.ts"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "export module Zoo {\n"), string(data))
	require.Contains(t, string(data), "\texport class Animal {\n")
}

func TestGenerateCommand_Env(t *testing.T) {
	in := writeZoo(t)
	out := filepath.Join(t.TempDir(), "env")
	t.Setenv("KOMODELGEN_GENERATOR_IN_FILE", in)
	t.Setenv("KOMODELGEN_GENERATOR_OUT_DIR", out)
	t.Setenv("KOMODELGEN_GENERATOR_OUT_FILE", "zoo.d.ts")

	c := NewGenerateCommand()
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())

	data, err := os.ReadFile(filepath.Join(out, "zoo.d.ts"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "declare namespace Zoo {\n"), string(data))
}

func TestSnapshotCommand_Create(t *testing.T) {
	in := writeZoo(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "typings")
	manifestPath := filepath.Join(dir, "manifest.yaml")

	c := NewSnapshotCommand()
	var stdout bytes.Buffer
	c.SetOut(&stdout)
	c.SetArgs([]string{"create", "--model", in, "--out-dir", out, "--version", "1.2", "--manifest", manifestPath})
	require.NoError(t, c.Execute())

	want := filepath.Join(out, "models.v1.2.0.d.ts")
	require.Equal(t, want, strings.TrimSpace(stdout.String()))
	_, err := os.Stat(want)
	require.NoError(t, err)
}
