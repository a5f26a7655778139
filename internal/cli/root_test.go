package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args, returning stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func assertGolden(t *testing.T, name string, actual string) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(actual))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sqli", cmd.Use)
	assert.Contains(t, cmd.Long, "filter trees")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, cmdName := range []string{"compile", "render"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	prefixFlag := cmd.PersistentFlags().Lookup("prefix")
	require.NotNil(t, prefixFlag)
	assert.Equal(t, "", prefixFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("no-color"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "compile", "select 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("SQLI_FORMAT", "json")
	t.Setenv("SQLI_PREFIX", ":arg")

	stdout, _, err := execute(t, "compile", "id = {0}", "10")
	require.NoError(t, err)

	var result StatementResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "id = :arg0", result.Text)
	require.Len(t, result.Params, 1)
	assert.Equal(t, ":arg0", result.Params[0].Name)
	assert.Equal(t, float64(10), result.Params[0].Value)
}

func TestFlagOverridesEnv(t *testing.T) {
	t.Setenv("SQLI_PREFIX", ":arg")

	stdout, _, err := execute(t, "--prefix", "$p", "--no-color", "compile", "id = {0}", "10")
	require.NoError(t, err)
	assert.Equal(t, "id = $p0\n\n$p0 = 10\n", stdout)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: \":v\"\nno-color: true\n"), 0o644))

	stdout, _, err := execute(t, "--config", path, "compile", "id = {0}", "10")
	require.NoError(t, err)
	assert.Equal(t, "id = :v0\n\n:v0 = 10\n", stdout)
}

func TestConfigFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := execute(t, "--config", path, "compile", "select 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestVerboseLogs(t *testing.T) {
	_, stderr, err := execute(t, "-v", "--no-color", "compile", "id = {0}", "10")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "template compiled")
	assert.Contains(t, stderr, "params=1")

	_, stderr, err = execute(t, "--no-color", "compile", "id = {0}", "10")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestLoggerWithoutPreRun(t *testing.T) {
	opts := &RootOptions{}
	logger := opts.Logger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("dropped", "key", "value") })
}
