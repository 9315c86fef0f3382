package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv is an isolated config and data directory for running the CLI
// in-process.
type testEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("PHONEBOOK_CONFIG_DIR", "")
	t.Setenv("PHONEBOOK_DATA_DIR", "")
	t.Setenv("PHONEBOOK_BIRTHDAY_POLICY", "")
	t.Setenv("PHONEBOOK_PAGE_SIZE", "")
	t.Setenv("PHONEBOOK_LOG_LEVEL", "")
	t.Setenv("PHONEBOOK_BACKEND", "")

	tempDir := t.TempDir()
	return &testEnv{
		t:         t,
		ConfigDir: filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
	}
}

// writeConfig writes config.yaml into the env's config directory.
func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	if err := os.MkdirAll(e.ConfigDir, 0o755); err != nil {
		e.t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.ConfigDir, "config.yaml"), []byte(content), 0o644); err != nil {
		e.t.Fatalf("failed to write config: %v", err)
	}
}

// cmdResult holds the outcome of one CLI invocation.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// run executes the CLI with stdin as input.
func (e *testEnv) run(stdin string, args ...string) cmdResult {
	e.t.Helper()
	allArgs := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}, args...)
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), allArgs, strings.NewReader(stdin), &stdout, &stderr)
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// mustRun executes the CLI and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	result := e.run("", args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("phonebook %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", s, err)
	}
	return v
}
