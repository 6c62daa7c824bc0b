package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrHook = errors.New("hook failed")

// HookOptions controls how hook scripts are run.
type HookOptions struct {
	Stdout  io.Writer
	Stderr  io.Writer
	HideEnv []string // Inherited variables the scripts must not see
	Logger  *slog.Logger
}

// ExecuteHooks runs all *.sh scripts in dir in lexical order. A missing dir
// is not an error. The first failing script stops the run.
func ExecuteHooks(ctx context.Context, dir string, env []string, opts HookOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Debug("No hooks dir", "dir", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read hooks dir: %v", ErrHook, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sh") {
			continue
		}

		scriptPath := filepath.Join(dir, entry.Name())
		logger.Info("Running hook", "script", entry.Name())

		cmd := exec.CommandContext(ctx, scriptPath)
		cmd.Env = append(WithoutEnv(os.Environ(), opts.HideEnv...), env...)
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrHook, entry.Name(), err)
		}
	}
	return nil
}

// WithoutEnv returns environ minus the variables named in keys.
func WithoutEnv(environ []string, keys ...string) []string {
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		drop := false
		for _, key := range keys {
			if name == key {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, kv)
		}
	}
	return out
}
