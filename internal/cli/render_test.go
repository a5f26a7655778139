package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitranim/sqli"
)

func writeDoc(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRenderText(t *testing.T) {
	stdout, _, err := execute(t, "--no-color", "render", filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)
	assertGolden(t, "render_text", stdout)
}

func TestRenderJSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "render", filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)
	assertGolden(t, "render_json", stdout)
}

func TestRenderStdin(t *testing.T) {
	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("text: select * from users\nwhere:\n  - text: id = {0}\n    args: [10]\n"))
	cmd.SetArgs([]string{"--no-color", "render", "-"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "select * from users\nWHERE id = @p0\n\n@p0 = 10\n", stdout.String())
}

func TestRenderOp(t *testing.T) {
	path := writeDoc(t, `
text: "select * from users {where}"
op: or
where:
  - text: "id = {0}"
    args: [1]
  - and:
      - text: "age > {0}"
        args: [18]
      - text: "age < {0}"
        args: [30]
`)

	stdout, _, err := execute(t, "--format", "json", "--prefix", ":arg", "render", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"text": "select * from users WHERE id = :arg0 OR (age > :arg1 AND age < :arg2)",
		"params": [
			{"name": ":arg0", "value": 1},
			{"name": ":arg1", "value": 18},
			{"name": ":arg2", "value": 30}
		]
	}`, stdout)
}

func TestRenderWithoutFilters(t *testing.T) {
	path := writeDoc(t, "text: \"select * from users {where}\"\nwhere:\n  - and: []\n")

	stdout, _, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.Equal(t, "select * from users \n", stdout)
}

func TestRenderInvalidDoc(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"text_and_group", "text: x\nwhere:\n  - text: a = 1\n    or:\n      - text: b = 1\n"},
		{"no_content", "text: x\nwhere:\n  - args: [1]\n"},
		{"group_args", "text: x\nwhere:\n  - and:\n      - text: a = 1\n    args: [1]\n"},
		{"unknown_op", "text: x\nop: xor\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "render", writeDoc(t, tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDoc)
		})
	}
}

func TestRenderUnknownField(t *testing.T) {
	_, _, err := execute(t, "render", writeDoc(t, "text: x\nfilters: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field filters not found")
}

func TestRenderTemplateError(t *testing.T) {
	_, _, err := execute(t, "render", writeDoc(t, "text: \"select * from users\"\nwhere:\n  - text: \"id = {1}\"\n    args: [10]\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, sqli.ErrIndexOutOfRange)
}

func TestRenderMissingFile(t *testing.T) {
	_, _, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildQuery(t *testing.T) {
	doc, err := ParseQueryDoc([]byte("text: select 1\nwhere:\n  - text: a = {0}\n    args: [x]\n"))
	require.NoError(t, err)

	query, err := BuildQuery(doc, sqli.Compiler{})
	require.NoError(t, err)

	text, args := query.Reify()
	assert.Equal(t, "select 1\nWHERE a = @p0", text)
	require.Len(t, args, 1)
}
