package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternsCmd_ListsRustDefaults(t *testing.T) {
	jsonFormat(t)

	dir := t.TempDir()
	writeProjectFile(t, dir, "Cargo.toml", "[package]\nname = \"demo\"\n")

	cmd := baseRootCmd()
	cmd.AddCommand(newPatternsCmd())

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"patterns", dir})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), `"language": "rust"`)
	require.Contains(t, out.String(), "unsafe")
	require.Contains(t, out.String(), "transmute")
}
