// Package command builds the launch description for an external tool.
//
// This package provides three main capabilities:
//
// # Tool Path Normalization
//
// NormalizeToolPath converts forward slashes to the platform separator unless
// the path is already quoted, in which case the quotes are stripped and the
// contents are used verbatim.
//
// # Launch Building
//
// BuildDirect describes a direct launch where the executable is started
// without an intermediate shell. BuildShell wraps the tool in the platform
// shell, optionally redirecting stdout and stderr to capture files:
//
//	launch := command.BuildShell(tool, args, command.ShellSpec{
//	    GOOS:       runtime.GOOS,
//	    Shell:      shellPath,
//	    Redirect:   true,
//	    StdoutPath: outPath,
//	    StderrPath: errPath,
//	})
//
// # Shell Discovery
//
// ResolveShell locates bash on POSIX systems and cmd.exe on Windows,
// searching PATH first and then common installation locations. ShellMatcher
// decides from glob patterns whether a tool path requires a shell.
package command
