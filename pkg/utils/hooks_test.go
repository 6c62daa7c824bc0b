package utils

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHook(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755))
}

func testOptions() HookOptions {
	return HookOptions{
		Stdout: io.Discard,
		Stderr: io.Discard,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestExecuteHooks_MissingDir(t *testing.T) {
	err := ExecuteHooks(context.Background(), filepath.Join(t.TempDir(), "none"), nil, testOptions())
	assert.NoError(t, err)
	assert.NoError(t, ExecuteHooks(context.Background(), "", nil, testOptions()))
}

func TestExecuteHooks_OrderAndEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell hooks are not supported on windows")
	}
	t.Setenv("ODYSSEY_API_KEY", "sk-hidden")

	root := t.TempDir()
	hooks := filepath.Join(root, "hooks")
	log := filepath.Join(root, "log.txt")

	writeHook(t, hooks, "20-second.sh", `echo "second $BUILD_OUTPUT_DIR" >> "`+log+`"`)
	writeHook(t, hooks, "10-first.sh", `echo "first key=$ODYSSEY_API_KEY" >> "`+log+`"`)
	writeHook(t, hooks, "README.md", "ignored")

	opts := testOptions()
	opts.HideEnv = []string{"ODYSSEY_API_KEY"}
	err := ExecuteHooks(context.Background(), hooks, []string{"BUILD_OUTPUT_DIR=public"}, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(log)
	require.NoError(t, err)
	assert.Equal(t, "first key=\nsecond public\n", string(data))
}

func TestExecuteHooks_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell hooks are not supported on windows")
	}
	hooks := t.TempDir()
	writeHook(t, hooks, "01-fail.sh", "exit 3")
	writeHook(t, hooks, "02-never.sh", "touch "+filepath.Join(hooks, "ran"))

	err := ExecuteHooks(context.Background(), hooks, nil, testOptions())
	assert.ErrorIs(t, err, ErrHook)
	assert.Contains(t, err.Error(), "01-fail.sh")
	assert.NoFileExists(t, filepath.Join(hooks, "ran"))
}

func TestWithoutEnv(t *testing.T) {
	env := []string{"A=1", "SECRET=x", "B=2", "SECRET_OTHER=y"}
	assert.Equal(t, []string{"A=1", "B=2", "SECRET_OTHER=y"}, WithoutEnv(env, "SECRET"))
}
