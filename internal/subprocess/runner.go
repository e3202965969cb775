package subprocess

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/toolrun-go/internal/command"
	"github.com/wagiedev/toolrun-go/internal/config"
	"github.com/wagiedev/toolrun-go/internal/errors"
	"github.com/wagiedev/toolrun-go/internal/stream"
)

// Runner starts external tools with a fixed set of options.
type Runner struct {
	log     *slog.Logger
	options *config.Options
	goos    string
}

// NewRunner creates a runner for the given options.
//
// The logger is used for operation tracking and debugging. Every run adds a
// run_id attribute so that concurrent runs can be told apart.
func NewRunner(log *slog.Logger, options *config.Options) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if options == nil {
		options = &config.Options{}
	}

	return &Runner{
		log:     log.With("component", "runner"),
		options: options,
		goos:    runtime.GOOS,
	}
}

// Run starts the tool, waits for it to exit and for all of its output to be
// drained, and returns the collected Result.
//
// Returns LaunchError if the tool cannot be started, ShellNotFoundError if
// shell mode is selected and no shell exists, CaptureError if shell-mode
// capture files cannot be created or read, and WorkingDirError if no working
// directory is configured and the current one cannot be determined.
func (r *Runner) Run(toolPath string, args []string) (Result, error) {
	if toolPath == "" {
		return Result{}, errors.ErrEmptyToolPath
	}

	runID := ulid.Make().String()
	log := r.log.With("run_id", runID)

	tool := command.NormalizeToolPath(toolPath)

	dir := r.options.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Result{}, &errors.WorkingDirError{Err: err}
		}

		dir = wd
	}

	shell, err := r.useShell(tool)
	if err != nil {
		return Result{}, err
	}

	release := r.options.ConsoleManager().Acquire(log)
	defer release()

	log.Debug("Running tool", "tool", tool, "args", args, "dir", dir, "shell", shell)

	if shell {
		return r.runShell(log, runID, tool, args, dir)
	}

	return r.runDirect(log, tool, args, dir)
}

func (r *Runner) useShell(tool string) (bool, error) {
	if r.options.ShellExecution {
		return true, nil
	}

	patterns := r.options.ShellPatterns
	if patterns == nil {
		patterns = command.DefaultShellPatterns(r.goos)
	}

	matcher, err := command.NewShellMatcher(r.goos, patterns)
	if err != nil {
		return false, err
	}

	pattern, ok := matcher.MatchPattern(tool)
	if ok {
		r.log.Debug("Tool path matches shell pattern", "tool", tool, "pattern", pattern)
	}

	return ok, nil
}

func (r *Runner) runDirect(log *slog.Logger, tool string, args []string, dir string) (Result, error) {
	launch := command.BuildDirect(tool, args)
	handler := r.options.IOHandler

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe: %w", err)
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)

		return Result{}, fmt.Errorf("stderr pipe: %w", err)
	}

	defer closeAll(stdoutR, stderrR)

	//nolint:gosec // G204: launching a caller-provided tool is the purpose of this package
	cmd := exec.Command(launch.Path, launch.Args[1:]...)
	cmd.Dir = dir
	cmd.Env = command.BuildEnvironment(r.options.Env)
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW
	configureSysProcAttr(cmd, launch)

	var stdin io.WriteCloser

	if handler != nil {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			closeAll(stdoutW, stderrW)

			return Result{}, fmt.Errorf("stdin pipe: %w", err)
		}
	}

	if err := cmd.Start(); err != nil {
		closeAll(stdoutW, stderrW)
		log.Error("Failed to start tool", "tool", tool, "error", err)

		return Result{}, &errors.LaunchError{ToolPath: tool, Err: err}
	}

	// The child holds its own copies; readers see EOF once every holder exits.
	closeAll(stdoutW, stderrW)

	proc := newProcess(cmd)
	log.Debug("Tool started", "pid", proc.Pid())

	if handler != nil {
		handler(proc, stdin, stream.Marker(stream.Stdout, false))
	}

	var output [2]bytes.Buffer

	completed := make(chan struct{})
	readers := stream.NewReaders(log, r.options.BufferSize(), stdoutR, stderrR)

	stream.NewMultiplexer(log, readers,
		func(c stream.Chunk) {
			output[c.Stream].Write(c.Bytes)

			if handler != nil {
				handler(proc, stdin, c)
			}
		},
		func() { close(completed) },
	)

	var g errgroup.Group

	g.Go(proc.wait)
	g.Go(func() error {
		<-completed

		log.Debug("Output drained")

		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("Tool wait failed", "error", err)
	}

	log.Info("Tool exited", "tool", tool, "exit_code", proc.code)

	return newResult(launch.Display, output[stream.Stdout].String(), output[stream.Stderr].String(), proc.code), nil
}

func (r *Runner) runShell(log *slog.Logger, runID, tool string, args []string, dir string) (Result, error) {
	shellPath, err := command.ResolveShell(log, r.goos)
	if err != nil {
		return Result{}, err
	}

	if r.options.IOHandler != nil {
		log.Warn("IO handler is not available in shell mode, ignoring it", "tool", tool)
	}

	if len(r.options.Env) > 0 {
		log.Debug("Environment overrides are not applied in shell mode", "count", len(r.options.Env))
	}

	spec := command.ShellSpec{
		GOOS:     r.goos,
		Shell:    shellPath,
		Redirect: r.options.Redirect(),
		Lang:     r.options.Lang(),
	}

	if spec.Redirect {
		spec.StdoutPath, err = createCaptureFile(runID, "stdout")
		if err != nil {
			return Result{}, err
		}

		defer removeCaptureFile(log, spec.StdoutPath)

		spec.StderrPath, err = createCaptureFile(runID, "stderr")
		if err != nil {
			return Result{}, err
		}

		defer removeCaptureFile(log, spec.StderrPath)
	}

	launch := command.BuildShell(tool, args, spec)

	//nolint:gosec // G204: launching a caller-provided tool is the purpose of this package
	cmd := exec.Command(launch.Path, launch.Args[1:]...)
	cmd.Dir = dir
	configureSysProcAttr(cmd, launch)

	var stdout, stderr bytes.Buffer

	if !launch.Redirected() {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	if err := cmd.Start(); err != nil {
		log.Error("Failed to start shell", "shell", shellPath, "error", err)

		return Result{}, &errors.LaunchError{ToolPath: tool, Err: err}
	}

	proc := newProcess(cmd)
	log.Debug("Shell started", "pid", proc.Pid(), "shell", shellPath)

	if err := proc.wait(); err != nil {
		log.Warn("Shell wait failed", "error", err)
	}

	log.Info("Tool exited", "tool", tool, "exit_code", proc.code)

	if !launch.Redirected() {
		return newResult(launch.Display, stdout.String(), stderr.String(), proc.code), nil
	}

	out, err := readCaptureFile(launch.StdoutPath)
	if err != nil {
		return Result{}, err
	}

	errOut, err := readCaptureFile(launch.StderrPath)
	if err != nil {
		return Result{}, err
	}

	return newResult(launch.Display, out, errOut, proc.code), nil
}

func createCaptureFile(runID, name string) (string, error) {
	f, err := os.CreateTemp("", "toolrun-"+runID+"-"+name+"-*")
	if err != nil {
		return "", &errors.CaptureError{Path: os.TempDir(), Err: err}
	}

	path := f.Name()

	if err := f.Close(); err != nil {
		_ = os.Remove(path)

		return "", &errors.CaptureError{Path: path, Err: err}
	}

	return path, nil
}

func readCaptureFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &errors.CaptureError{Path: path, Err: err}
	}

	return string(data), nil
}

func removeCaptureFile(log *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Debug("Failed to remove capture file", "path", path, "error", err)
	}
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
