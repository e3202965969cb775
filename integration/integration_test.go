//go:build integration

package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/toolrun-go"
)

// skipIfShellNotInstalled skips the test if the error indicates no shell was found.
func skipIfShellNotInstalled(t *testing.T, err error) {
	t.Helper()

	if notFound, ok := errors.AsType[*toolrun.ShellNotFoundError](err); ok {
		t.Skipf("%s not installed", notFound.Shell)
	}
}

// requirePOSIX skips the test on platforms without /bin/sh.
func requirePOSIX(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// requireTool skips the test if name is not on PATH.
func requireTool(t *testing.T, name string) string {
	t.Helper()

	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not installed", name)
	}

	return path
}

// writeScript writes an executable /bin/sh script into dir under name.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	requirePOSIX(t)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

// isolateTempDir points TMPDIR at a fresh directory and returns it, so tests
// can check that shell-mode capture files are cleaned up.
func isolateTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	return dir
}
