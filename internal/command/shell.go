package command

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/gobwas/glob"

	"github.com/wagiedev/toolrun-go/internal/errors"
)

// DefaultShellPatterns returns the tool path patterns that force shell
// execution on the given platform. A path holding a single quote cannot be
// passed reliably as a direct argv[0] to every launcher, and batch files
// need cmd.exe on Windows.
func DefaultShellPatterns(goos string) []string {
	patterns := []string{"*'*"}

	if goos == "windows" {
		patterns = append(patterns, "*.bat", "*.cmd")
	}

	return patterns
}

// ShellMatcher reports whether a tool path must run through the shell.
type ShellMatcher struct {
	patterns []string
	globs    []glob.Glob
	fold     bool
}

// NewShellMatcher compiles the given glob patterns. On Windows matching is
// case-insensitive.
func NewShellMatcher(goos string, patterns []string) (*ShellMatcher, error) {
	m := &ShellMatcher{
		patterns: patterns,
		globs:    make([]glob.Glob, 0, len(patterns)),
		fold:     goos == "windows",
	}

	for _, pattern := range patterns {
		if m.fold {
			pattern = strings.ToLower(pattern)
		}

		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile shell pattern %q: %w", pattern, err)
		}

		m.globs = append(m.globs, g)
	}

	return m, nil
}

// Match reports whether toolPath matches any pattern.
func (m *ShellMatcher) Match(toolPath string) bool {
	_, ok := m.MatchPattern(toolPath)

	return ok
}

// MatchPattern returns the first source pattern toolPath matches.
func (m *ShellMatcher) MatchPattern(toolPath string) (string, bool) {
	if m.fold {
		toolPath = strings.ToLower(toolPath)
	}

	for i, g := range m.globs {
		if g.Match(toolPath) {
			return m.patterns[i], true
		}
	}

	return "", false
}

// ResolveShell locates the shell interpreter for the given platform.
func ResolveShell(log *slog.Logger, goos string) (string, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	name, fallbacks := shellCandidates(goos)

	log.Debug("Searching for shell in PATH", "shell", name)

	if path, err := exec.LookPath(name); err == nil {
		log.Debug("Found shell in PATH", "path", path)

		return path, nil
	}

	searchedPaths := make([]string, 0, len(fallbacks)+1)
	searchedPaths = append(searchedPaths, "$PATH")

	for _, path := range fallbacks {
		searchedPaths = append(searchedPaths, path)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			log.Debug("Found shell at common path", "path", path)

			return path, nil
		}
	}

	log.Warn("Shell not found in any searched paths", "shell", name, "searched_paths", searchedPaths)

	return "", &errors.ShellNotFoundError{Shell: name, SearchedPaths: searchedPaths}
}

func shellCandidates(goos string) (string, []string) {
	if goos == "windows" {
		fallbacks := make([]string, 0, 2)
		if comspec := os.Getenv("ComSpec"); comspec != "" {
			fallbacks = append(fallbacks, comspec)
		}

		fallbacks = append(fallbacks, `C:\Windows\System32\cmd.exe`)

		return "cmd.exe", fallbacks
	}

	return "bash", []string{
		"/bin/bash",
		"/usr/bin/bash",
		"/usr/local/bin/bash",
		"/opt/homebrew/bin/bash",
	}
}
