package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

func writeProjectFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func jsonFormat(t *testing.T) {
	t.Helper()

	viper.Set(outputFormatKey, "json")
	t.Cleanup(func() { viper.Set(outputFormatKey, defaultFormat) })
}

func TestCheckCmd_FailsOnUnjustifiedEscape(t *testing.T) {
	jsonFormat(t)

	dir := t.TempDir()
	writeProjectFile(t, dir, "go.mod", "module example.com/demo\n\ngo 1.25\n")
	writeProjectFile(t, dir, "ptr.go", "package demo\n\nimport \"unsafe\"\n\nvar scratch = unsafe.Pointer(nil)\n")

	cmd := baseRootCmd()
	cmd.AddCommand(newCheckCmd())

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", dir})

	err := cmd.Execute()
	require.ErrorIs(t, err, errCheckFailed)
	require.Contains(t, out.String(), "missing_comment")
	require.Contains(t, out.String(), "unsafe_pointer")
}

func TestResolveRoot(t *testing.T) {
	t.Run("explicit path argument wins", func(t *testing.T) {
		require.Equal(t, m.Path("sub/project"), resolveRoot([]string{"sub/project"}))
	})

	t.Run("walks up to the nearest marker", func(t *testing.T) {
		dir := t.TempDir()
		writeProjectFile(t, dir, "go.mod", "module example.com/demo\n")
		writeProjectFile(t, dir, "internal/deep/keep.go", "package deep\n")

		chdir(t, filepath.Join(dir, "internal", "deep"))

		root := resolveRoot(nil)
		require.True(t, fsAdapter.FileExists(fsAdapter.JoinPath(string(root), "go.mod")))
	})

	t.Run("no marker keeps the working directory", func(t *testing.T) {
		dir := t.TempDir()

		chdir(t, dir)

		wd, err := os.Getwd()
		require.NoError(t, err)

		if _, err := fsAdapter.FindProjectRoot(m.Path(wd), projectMarkers); err == nil {
			t.Skip("a project marker exists above the temp dir")
		}

		require.Equal(t, m.Path(wd), resolveRoot(nil))
	})
}

func TestCheckCmd_PassesJustifiedEscape(t *testing.T) {
	jsonFormat(t)

	dir := t.TempDir()
	writeProjectFile(t, dir, "go.mod", "module example.com/demo\n\ngo 1.25\n")
	writeProjectFile(t, dir, "ptr.go", "package demo\n\nimport \"unsafe\"\n\n// SAFETY: the zero pointer is never dereferenced.\nvar scratch = unsafe.Pointer(nil)\n")

	cmd := baseRootCmd()
	cmd.AddCommand(newCheckCmd())

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", dir})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), `"status": "passed"`)
}
