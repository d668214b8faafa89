package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFeed(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"feed", "--env-file", ""}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFeedDispatches(t *testing.T) {
	stdout, stderr, err := runFeed(t, "echo hi\nbogus\r\nshow version\r\n")

	assert.ErrorContains(t, err, "1 line(s) failed")
	assert.Contains(t, stdout, "hi\r\n")
	assert.Contains(t, stdout, "stint interpreter\r\n")
	assert.Contains(t, stderr, "line 2: no match")
}

func TestFeedAllGood(t *testing.T) {
	stdout, _, err := runFeed(t, "echo a\n\n\necho tail")
	require.NoError(t, err)
	assert.Equal(t, "a\r\ntail\r\n", stdout)
}

func TestFeedDropsOverlongLine(t *testing.T) {
	t.Setenv("STINT_BUFFER_SIZE", "8")
	stdout, stderr, err := runFeed(t, "echo 123456789\necho ok\n")

	assert.Error(t, err)
	assert.Contains(t, stderr, "line 1: buffer full")
	assert.Equal(t, "ok\r\n", stdout)
}

func TestFeedFixedDelimiterFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "stint.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("line_ending = \"fixed\"\ndelimiter = \";\"\n"), 0o600))
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("echo a;echo b;"), 0o600))

	stdout, _, err := runFeed(t, "", "--config", cfgPath, input)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\n", stdout)
}

func TestFeedFixedDelimiterLineNumbers(t *testing.T) {
	t.Setenv("STINT_LINE_ENDING", "fixed")
	t.Setenv("STINT_DELIMITER", ";")
	_, stderr, err := runFeed(t, "echo a;bogus;echo b;nope;")

	assert.ErrorContains(t, err, "2 line(s) failed")
	assert.Contains(t, stderr, "line 2: no match")
	assert.Contains(t, stderr, "line 4: no match")
	assert.NotContains(t, stderr, "line 1:")
}
