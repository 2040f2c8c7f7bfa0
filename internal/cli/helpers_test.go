package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv provides an isolated config and data directory for in-process
// runs of the command tree.
type testEnv struct {
	t       *testing.T
	Config  string
	DataDir string
}

func newTestEnv(t *testing.T, configYAML string) *testEnv {
	t.Helper()
	for _, k := range []string{"LEDGER_BACKEND", "LEDGER_FILE", "LEDGER_LOG_LEVEL", "LEDGER_DATA_DIR", "LEDGER_CONFIG_DIR"} {
		t.Setenv(k, "")
	}

	tempDir := t.TempDir()
	env := &testEnv{
		t:       t,
		Config:  filepath.Join(tempDir, "config"),
		DataDir: filepath.Join(tempDir, "data"),
	}
	if configYAML != "" {
		require.NoError(t, os.MkdirAll(env.Config, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(env.Config, "config.yaml"), []byte(configYAML), 0o644))
	}
	return env
}

// cmdResult holds the outcome of one in-process command run.
type cmdResult struct {
	Stdout   string
	Stderr   string
	Err      error
	ExitCode int
}

// run executes the command tree with the env's directories and stdin.
func (e *testEnv) run(stdin string, args ...string) cmdResult {
	e.t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...))

	err := root.Execute()
	code := exitSuccess
	if err != nil {
		code = exitCode(err)
	}
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err, ExitCode: code}
}

// mustRun executes the command tree and fails the test on any error.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run("", args...)
	if res.Err != nil {
		e.t.Fatalf("ledger %v failed: %v\nstdout: %s\nstderr: %s", args, res.Err, res.Stdout, res.Stderr)
	}
	return res
}

func (e *testEnv) documentPath(name string) string {
	return filepath.Join(e.DataDir, name)
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", s, err)
	}
	return v
}
