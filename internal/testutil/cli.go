// Package testutil provides shared test utilities for CLI testing across packages.
// This enables co-located CLI tests while maintaining consistent test infrastructure.
package testutil

import (
	"bytes"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"todoapp/backend"
	"todoapp/cmd/todoapp/cmd"
	"todoapp/internal/store"
)

// defaultTestConfig is the minimal config used by most test constructors to ensure isolation.
const defaultTestConfig = "# test config\nbackend: sqlite\n"

// CLITest provides a test helper for running CLI commands in isolation.
type CLITest struct {
	t          *testing.T
	cfg        *cmd.Config
	tmpDir     string
	configPath string
}

// NewCLITest creates a new CLI test helper backed by a SQLite file in a temp directory.
func NewCLITest(t *testing.T) *CLITest {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write a minimal default config to ensure isolation
	if err := os.WriteFile(configPath, []byte(defaultTestConfig), 0644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	// Keep default data paths (log file, file backend) inside the temp dir
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg-config"))

	cfg := &cmd.Config{
		NoPrompt:   true,
		ConfigPath: configPath,
		DBPath:     filepath.Join(tmpDir, "test.db"),
		IsTerminal: func(io.Writer) bool { return false },
	}

	return &CLITest{
		t:          t,
		cfg:        cfg,
		tmpDir:     tmpDir,
		configPath: configPath,
	}
}

// NewCLITestWithPrompt creates a CLI test helper that does not print result codes.
func NewCLITestWithPrompt(t *testing.T) *CLITest {
	t.Helper()
	c := NewCLITest(t)
	c.cfg.NoPrompt = false
	return c
}

// Config returns the test configuration.
func (c *CLITest) Config() *cmd.Config {
	return c.cfg
}

// TmpDir returns the temporary directory for the test.
func (c *CLITest) TmpDir() string {
	return c.tmpDir
}

// DBPath returns the SQLite database used by the test.
func (c *CLITest) DBPath() string {
	return c.cfg.DBPath
}

// ConfigPath returns the path to the config file.
func (c *CLITest) ConfigPath() string {
	return c.configPath
}

// SetConfigValue appends a top-level key-value pair to the test config file.
func (c *CLITest) SetConfigValue(key, value string) {
	c.t.Helper()

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		c.t.Fatalf("failed to read config file: %v", err)
	}

	newConfig := string(data) + key + ": " + value + "\n"
	if err := os.WriteFile(c.configPath, []byte(newConfig), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// SetFullConfig replaces the entire config file with the given YAML content.
func (c *CLITest) SetFullConfig(yamlContent string) {
	c.t.Helper()

	if err := os.WriteFile(c.configPath, []byte(yamlContent), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// Execute runs a CLI command with the given arguments and returns stdout, stderr, and exit code.
func (c *CLITest) Execute(args ...string) (stdout, stderr string, exitCode int) {
	c.t.Helper()

	var stdoutBuf, stderrBuf bytes.Buffer
	exitCode = cmd.Execute(args, &stdoutBuf, &stderrBuf, c.cfg)
	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

// MustExecute runs a CLI command and fails the test if exit code is non-zero.
func (c *CLITest) MustExecute(args ...string) string {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode != 0 {
		c.t.Fatalf("expected exit code 0, got %d: stdout=%s stderr=%s", exitCode, stdout, stderr)
	}
	return stdout
}

// ExecuteAndFail runs a CLI command and fails the test if exit code is zero.
func (c *CLITest) ExecuteAndFail(args ...string) (stdout, stderr string) {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode == 0 {
		c.t.Fatalf("expected non-zero exit code, got 0: stdout=%s", stdout)
	}
	return stdout, stderr
}

// PersistedTasks reads the task list straight from the test database,
// bypassing the CLI.
func (c *CLITest) PersistedTasks() []backend.Task {
	c.t.Helper()

	db, err := openTestDB(c.cfg.DBPath)
	if err != nil {
		c.t.Fatalf("failed to open test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	var value string
	err = db.QueryRow("SELECT value FROM kv WHERE key = ?", backend.DefaultKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []backend.Task{}
	}
	if err != nil {
		c.t.Fatalf("failed to read task list: %v", err)
	}

	tasks, err := store.Decode([]byte(value))
	if err != nil {
		c.t.Fatalf("persisted task list is malformed: %v", err)
	}
	return tasks
}

// TaskID returns the id of the persisted task with the given text.
func (c *CLITest) TaskID(text string) string {
	c.t.Helper()

	for _, task := range c.PersistedTasks() {
		if task.Text == text {
			return strconv.FormatInt(task.ID, 10)
		}
	}
	c.t.Fatalf("no persisted task with text %q", text)
	return ""
}

// AssertContains fails the test if output doesn't contain expected string.
func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// AssertNotContains fails the test if output contains unexpected string.
func AssertNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	if strings.Contains(output, unexpected) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", unexpected, output)
	}
}

// AssertExitCode fails the test if exit code doesn't match expected.
func AssertExitCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// AssertResultCode verifies that the output ends with the expected result code.
func AssertResultCode(t *testing.T, output, expectedCode string) {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		t.Errorf("expected result code %q but output is empty", expectedCode)
		return
	}
	lastLine := strings.TrimSpace(lines[len(lines)-1])
	if lastLine != expectedCode {
		t.Errorf("expected result code %q, got %q\nFull output:\n%s", expectedCode, lastLine, output)
	}
}

// Result code constants for convenience.
const (
	ResultActionCompleted = cmd.ResultActionCompleted
	ResultInfoOnly        = cmd.ResultInfoOnly
	ResultError           = cmd.ResultError
)

// openTestDB opens the SQLite database for testing purposes.
func openTestDB(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite", dbPath)
}
