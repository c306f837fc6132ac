package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/mindgest/internal/mindmap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MINDGEST_CONFIG", "")
	t.Setenv("MINDGEST_BACKEND", "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_RuleBased(t *testing.T) {
	a := writeFile(t, "ravi.txt", "Ravi Kumar was born in 1985 and lives in Delhi with his father.")
	b := writeFile(t, "blank.txt", "")

	out, err := execute(t, "generate", "--name", "Case 12", "--backend", "none", a, b)
	require.NoError(t, err)

	var root mindmap.RenderNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "root", root.ID)
	assert.Equal(t, "Case 12", root.Label)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "source_1", root.Children[0].ID)
	assert.Equal(t, "ravi", root.Children[0].Label)
	assert.Equal(t, "source_2", root.Children[1].ID)
	assert.Equal(t, "No content available", root.Children[1].Children[0].Label)
}

func TestGenerate_TitleAndPretty(t *testing.T) {
	a := writeFile(t, "notes.txt", "Ravi Kumar was born in 1985 and lives in Delhi with his father.")

	out, err := execute(t, "generate", "--backend", "none", "--title", "Ravi Kumar", "--pretty", a)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "\n  \"id\""), "expected indented output")

	var root mindmap.RenderNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "Notebook", root.Label)
	assert.Equal(t, "Ravi Kumar", root.Children[0].Label)
}

func TestGenerate_Errors(t *testing.T) {
	a := writeFile(t, "a.txt", "x")
	b := writeFile(t, "b.txt", "y")

	_, err := execute(t, "generate", "--backend", "none", "--title", "T", a, b)
	assert.Error(t, err)

	_, err = execute(t, "generate", "--backend", "bogus", a)
	assert.Error(t, err)

	_, err = execute(t, "generate", "--backend", "none", writeFile(t, "sheet.csv", "a,b"))
	assert.Error(t, err)

	_, err = execute(t, "generate")
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	path := writeFile(t, "dossier.md", "# Report\n\nRavi Kumar met Anil Sharma. Ravi Kumar later left for Pune.\n")

	out, err := execute(t, "subject", path)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar\n", out)
}
