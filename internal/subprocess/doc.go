// Package subprocess runs external tools and collects their output.
//
// A Runner starts the tool either directly, with its stdout and stderr
// connected to OS pipes that are drained concurrently by stream readers, or
// wrapped in the platform shell with its output redirected to temporary
// capture files. Either way the caller receives an immutable Result holding
// the complete stdout, stderr, exit code and a diagnostic message.
package subprocess
