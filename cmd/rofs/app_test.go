package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main\n// TODO: wire\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("todo list\n"), 0o644))
	return root
}

func run(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp().WithOutput(&stdout, &stderr)
	full := append([]string{"--root", root, "--config", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	err := app.ExecuteWithArgs(context.Background(), full)
	return stdout.String(), stderr.String(), err
}

func TestGlobCommand(t *testing.T) {
	root := setupRoot(t)

	out, _, err := run(t, root, "glob", "**/*.go")
	require.NoError(t, err)

	var resp struct {
		Paths  []string `json:"paths"`
		Status string   `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"src/main.go"}, resp.Paths)
	assert.Equal(t, "complete", resp.Status)
}

func TestGrepCommand_IgnoreCase(t *testing.T) {
	root := setupRoot(t)

	out, _, err := run(t, root, "grep", "-i", "todo")
	require.NoError(t, err)

	var resp struct {
		Matches []struct {
			Path string `json:"path"`
			Line int    `json:"line"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Matches, 2)
	// Directories are visited before files at each level.
	assert.Equal(t, "src/main.go", resp.Matches[0].Path)
	assert.Equal(t, 2, resp.Matches[0].Line)
	assert.Equal(t, "README.md", resp.Matches[1].Path)
}

func TestGlobCommand_SeveralPatterns(t *testing.T) {
	root := setupRoot(t)

	out, _, err := run(t, root, "glob", "**/*.go", "*.md", "src/*.go")
	require.NoError(t, err)

	var resp struct {
		Paths []string `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"src/main.go", "README.md"}, resp.Paths)
}

func TestViewCommand(t *testing.T) {
	root := setupRoot(t)

	out, _, err := run(t, root, "view", "src/main.go", "--offset", "1", "--lines", "5")
	require.NoError(t, err)

	var resp struct {
		Lines     []string `json:"lines"`
		FirstLine int      `json:"first_line"`
		Status    string   `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"// TODO: wire"}, resp.Lines)
	assert.Equal(t, 2, resp.FirstLine)
	assert.Equal(t, "complete", resp.Status)
}

func TestGlanceCommand_Text(t *testing.T) {
	root := setupRoot(t)

	out, _, err := run(t, root, "glance", "--text")
	require.NoError(t, err)
	assert.Contains(t, out, "src/")
	assert.Contains(t, out, "main.go")
}

func TestFailurePrintedAsJSON(t *testing.T) {
	root := setupRoot(t)

	out, _, err := run(t, root, "glob", "../*")
	assert.ErrorIs(t, err, errReported)

	var failure struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &failure))
	assert.Equal(t, "out_of_scope", failure.Kind)
}

func TestInvokeCommand_ReadsStdin(t *testing.T) {
	root := setupRoot(t)

	var stdout, stderr bytes.Buffer
	app := NewApp().WithOutput(&stdout, &stderr)
	app.root.SetIn(strings.NewReader(`{"pattern": "*.md"}`))
	err := app.ExecuteWithArgs(context.Background(), []string{
		"--root", root, "--config", filepath.Join(t.TempDir(), "none.yaml"), "invoke", "glob",
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "README.md")
}

func TestToolsCommand(t *testing.T) {
	out, _, err := run(t, setupRoot(t), "tools")
	require.NoError(t, err)

	var decls []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decls))
	require.Len(t, decls, 4)
	assert.Equal(t, "glob", decls[0]["name"])
}

func TestMissingRoot(t *testing.T) {
	_, _, err := run(t, filepath.Join(t.TempDir(), "missing"), "glob", "*")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
}
