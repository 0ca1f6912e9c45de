package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	usersPath := filepath.Join(dir, "pending_users.yaml")
	content := "pending_users_file: '" + usersPath + "'\npending_groups_file: '" + filepath.Join(dir, "pending_groups.yaml") + "'\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	require.NoError(t, os.WriteFile(usersPath, []byte("pending_users:\n- {name: A, uuid: u1}\n"), 0o644))
	return configPath, usersPath
}

func runRoot(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("PENDING_BACKEND", "file")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestUsersCommands(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out := runRoot(t, "", "users", "pending", "--config", configPath)
	assert.Contains(t, out, "1. A")

	out = runRoot(t, "", "users", "approve", "1", "--config", configPath)
	assert.Contains(t, out, "Approved user: A")

	out = runRoot(t, "", "users", "allowed", "--config", configPath)
	assert.Contains(t, out, "UUID: u1")

	out = runRoot(t, "", "users", "remove", "u1", "--config", configPath)
	assert.Contains(t, out, "Removed user with UUID: u1")
}

func TestGroupsTruncateMissingQueue(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	out := runRoot(t, "", "groups", "truncate", "--config", configPath)
	assert.Contains(t, out, "No pending groups.")
}

func TestConsole(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	out := runRoot(t, "hello\n!pending\n!approve 1\n!allowed\n", "console", "--config", configPath)
	assert.Contains(t, out, "Pending users (1):")
	assert.Contains(t, out, "Approved user: A")
	assert.Contains(t, out, "Name: A")
	assert.NotContains(t, out, "hello")
}
