package toolrun

import (
	"log/slog"
	"maps"

	"github.com/wagiedev/toolrun-go/internal/config"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = NopLogger()
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, NopLogger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithDir sets the working directory of the tool.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// WithEnv adds environment variables for the tool. Multiple calls merge.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string, len(env))
		}

		maps.Copy(o.Env, env)
	}
}

// WithIOHandler sets a handler that receives raw output chunks and may write
// to the tool's stdin.
func WithIOHandler(handler IOHandler) Option {
	return func(o *Options) {
		o.IOHandler = handler
	}
}

// WithLineHandler sets a handler that receives complete output lines.
func WithLineHandler(handler LineFunc) Option {
	return WithIOHandler(LineHandler(handler))
}

// WithShellExecution forces the tool to run through the platform shell.
func WithShellExecution(enabled bool) Option {
	return func(o *Options) {
		o.ShellExecution = enabled
	}
}

// WithShellRedirect controls whether shell-mode output is captured through
// temporary files. Enabled by default.
func WithShellRedirect(enabled bool) Option {
	return func(o *Options) {
		o.ShellRedirect = &enabled
	}
}

// WithShellLang exports lang as LANG inside the shell before the tool runs.
func WithShellLang(lang string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string, 1)
		}

		o.Env["LANG"] = lang
		o.ShellLang = true
	}
}

// WithShellPatterns replaces the glob patterns of tool paths that always run
// through the shell.
func WithShellPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.ShellPatterns = append([]string{}, patterns...)
	}
}

// WithReadBufferSize sets the per-read buffer size of the output readers.
func WithReadBufferSize(size int) Option {
	return func(o *Options) {
		o.ReadBufferSize = size
	}
}

// WithDispatcher sets the dispatcher that delivers RunAsync completions.
func WithDispatcher(dispatcher Dispatcher) Option {
	return func(o *Options) {
		o.Dispatcher = dispatcher
	}
}

// WithSynchronousExecution makes RunAsync run the tool on the calling
// goroutine. The completion is still delivered through the dispatcher.
func WithSynchronousExecution(enabled bool) Option {
	return func(o *Options) {
		o.SynchronousExecution = enabled
	}
}

// WithConsoleManager sets the console encoding manager.
func WithConsoleManager(manager *ConsoleManager) Option {
	return func(o *Options) {
		o.Console = manager
	}
}

// WithProfile applies settings loaded from a YAML profile. Later options
// override the profile.
func WithProfile(profile *config.Profile) Option {
	return func(o *Options) {
		profile.Apply(o, config.DetectHeadless())
	}
}

// LoadProfile reads a YAML profile for use with WithProfile.
func LoadProfile(path string) (*config.Profile, error) {
	return config.LoadFile(path)
}
