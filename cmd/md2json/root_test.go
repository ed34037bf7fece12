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

	"github.com/dgallion1/md2json/internal/convert"
)

const credentialsDoc = `owner: infra-team
region: us-east
# Networking Management

Core switches & routers.

## Table: Machines

| name | ip |
|------|----|
| gw1  | 10.0.0.1 |

# STOP

# Scratch

ignored
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRoot_NoMarkdownPrintsHelp(t *testing.T) {
	stdout, _, err := execute(t)

	require.NoError(t, err)
	assert.Contains(t, stdout, "--md")
	assert.Contains(t, stdout, `md2json --md credentials.md | jq '."Networking Management"."tables"."Machines"'`)
}

func TestRoot_ConvertsFile(t *testing.T) {
	path := writeDoc(t, credentialsDoc)

	stdout, _, err := execute(t, "--md", path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))

	section := out["Networking Management"].(map[string]any)
	assert.Equal(t, []any{"Core switches &amp; routers."}, section["paragraphs"])
	assert.Equal(t,
		map[string]any{"Machines": []any{[]any{"name", "ip"}, []any{"gw1", "10.0.0.1"}}},
		section["tables"])
	assert.Equal(t, map[string]any{"owner": "infra-team", "region": "us-east"}, out["Metadata"])
	assert.NotContains(t, out, "Scratch")
	assert.NotContains(t, out, "STOP")
}

func TestRoot_NoEscape(t *testing.T) {
	path := writeDoc(t, credentialsDoc)

	stdout, _, err := execute(t, "--md", path, "--no-escape")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Core switches & routers.")
}

func TestRoot_DebugTrace(t *testing.T) {
	path := writeDoc(t, credentialsDoc)

	stdout, _, err := execute(t, "--md", path, "--debug")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "PARAGRAPH:Core switches &amp; routers.", lines[0])
	assert.Equal(t, "Table:Machines", lines[1])
	assert.Equal(t, "table text:name|ip|", lines[2])
	assert.Equal(t, "gw1|10.0.0.1|", lines[3])
	assert.True(t, json.Valid([]byte(lines[4])))
}

func TestRoot_MissingFile(t *testing.T) {
	stdout, stderr, err := execute(t, "--md", filepath.Join(t.TempDir(), "missing.md"))

	require.Error(t, err)
	assert.ErrorIs(t, err, convert.ErrRead)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "missing.md")
}

func TestRoot_RejectsPositionalArgs(t *testing.T) {
	_, _, err := execute(t, "doc.md")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	prev := version
	version = "test-1.0.0"
	defer func() { version = prev }()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "md2json version test-1.0.0")
}
