// Package mcp exposes tool runs over the Model Context Protocol.
//
// The server registers a single run_tool tool that starts an external
// program with the runner and returns its diagnostic message as text, plus
// stdout, stderr and the exit code as structured output. A non-zero exit or a
// launch failure is reported as a tool error rather than a protocol error.
package mcp
