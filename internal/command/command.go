package command

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Launch describes how to start a tool.
type Launch struct {
	// Path is the executable to start.
	Path string

	// Args are the command line arguments, including argv[0].
	Args []string

	// CmdLine is the raw Windows command line. Empty on POSIX.
	CmdLine string

	// Display is the human readable "tool args" form used in messages.
	Display string

	// StdoutPath and StderrPath are the capture files for shell redirection.
	// Both are empty when output is not redirected.
	StdoutPath string
	StderrPath string
}

// Redirected reports whether the launch writes its output to capture files.
func (l Launch) Redirected() bool {
	return l.StdoutPath != "" && l.StderrPath != ""
}

// ShellSpec configures a shell-wrapped launch.
type ShellSpec struct {
	// GOOS selects the shell dialect ("windows" uses cmd.exe syntax).
	GOOS string

	// Shell is the resolved interpreter path.
	Shell string

	// Redirect appends output redirection to StdoutPath and StderrPath.
	Redirect   bool
	StdoutPath string
	StderrPath string

	// Lang, when non-empty, is exported as LANG before the tool runs.
	// Ignored on Windows.
	Lang string
}

// NormalizeToolPath prepares a tool path for launching.
//
// A path wrapped in double or single quotes is unwrapped and otherwise left
// untouched. Any other path has its forward slashes converted to the
// platform separator.
func NormalizeToolPath(toolPath string) string {
	if len(toolPath) >= 2 {
		first, last := toolPath[0], toolPath[len(toolPath)-1]
		if (first == '"' || first == '\'') && first == last {
			return toolPath[1 : len(toolPath)-1]
		}
	}

	return filepath.FromSlash(toolPath)
}

// Display renders a tool invocation for diagnostics.
func Display(toolPath string, args []string) string {
	if len(args) == 0 {
		return toolPath
	}

	return toolPath + " " + strings.Join(args, " ")
}

// BuildDirect describes launching the tool without a shell.
func BuildDirect(toolPath string, args []string) Launch {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, toolPath)
	argv = append(argv, args...)

	return Launch{
		Path:    toolPath,
		Args:    argv,
		Display: Display(toolPath, args),
	}
}

// BuildShell describes launching the tool through the platform shell.
func BuildShell(toolPath string, args []string, spec ShellSpec) Launch {
	launch := Launch{
		Path:    spec.Shell,
		Display: Display(toolPath, args),
	}

	if spec.Redirect {
		launch.StdoutPath = spec.StdoutPath
		launch.StderrPath = spec.StderrPath
	}

	if spec.GOOS == "windows" {
		inner := windowsInner(toolPath, args, launch)
		launch.Args = []string{spec.Shell, "/d", "/s", "/c", inner}
		launch.CmdLine = QuoteWindows(spec.Shell) + ` /d /s /c "` + inner + `"`

		return launch
	}

	launch.Args = []string{spec.Shell, "-l", "-c", posixInner(toolPath, args, spec.Lang, launch)}

	return launch
}

func posixInner(toolPath string, args []string, lang string, launch Launch) string {
	var b strings.Builder

	if lang != "" {
		fmt.Fprintf(&b, "export LANG=%s; ", QuotePOSIX(lang))
	}

	b.WriteString(QuotePOSIX(toolPath))

	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(QuotePOSIX(arg))
	}

	if launch.Redirected() {
		fmt.Fprintf(&b, " 1> %s 2> %s", QuotePOSIX(launch.StdoutPath), QuotePOSIX(launch.StderrPath))
	}

	return b.String()
}

func windowsInner(toolPath string, args []string, launch Launch) string {
	var b strings.Builder

	b.WriteString(QuoteWindows(toolPath))

	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(QuoteWindows(arg))
	}

	if launch.Redirected() {
		fmt.Fprintf(&b, " 1> %s 2> %s", QuoteWindows(launch.StdoutPath), QuoteWindows(launch.StderrPath))
	}

	return b.String()
}

// BuildEnvironment constructs the environment for a direct launch.
//
// Overrides are applied on top of the current environment in sorted key
// order, replacing existing entries with the same key.
func BuildEnvironment(overrides map[string]string) []string {
	env := os.Environ()
	if len(overrides) == 0 {
		return env
	}

	merged := make([]string, 0, len(env)+len(overrides))

	for _, entry := range env {
		key, _, _ := strings.Cut(entry, "=")
		if _, ok := overrides[key]; ok {
			continue
		}

		merged = append(merged, entry)
	}

	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		merged = append(merged, key+"="+overrides[key])
	}

	return merged
}
