package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/wagiedev/toolrun-go"
)

// runFlags holds the flags of the run command.
type runFlags struct {
	dir        string
	env        []string
	shell      bool
	noRedirect bool
	lang       string
	lines      bool
	respond    []string
	async      bool
	configPath string
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <tool> [args...]",
	Short: "Run a tool and report its output",
	Long: `Runs the tool, waits until it exits and prints its stdout and stderr.
The exit status of toolrun mirrors the tool's.

With --lines, output is streamed live one line at a time, prefixed with the
stream name. --respond PATTERN=REPLY writes REPLY to the tool's stdin whenever
a stdout line, or a prompt still waiting for its newline, contains PATTERN.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	flags := runCmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVar(&runOpts.dir, "dir", "", "Working directory of the tool")
	flags.StringArrayVar(&runOpts.env, "env", nil, "Extra environment variable KEY=VALUE (repeatable)")
	flags.BoolVar(&runOpts.shell, "shell", false, "Run the tool through bash (cmd.exe on Windows)")
	flags.BoolVar(&runOpts.noRedirect, "no-redirect", false, "Do not capture shell-mode output through temporary files")
	flags.StringVar(&runOpts.lang, "lang", "", "Export LANG inside the shell before the tool runs")
	flags.BoolVar(&runOpts.lines, "lines", false, "Stream output live, one prefixed line at a time")
	flags.StringArrayVar(&runOpts.respond, "respond", nil, "Answer PATTERN=REPLY on stdin when a stdout line contains PATTERN (repeatable)")
	flags.BoolVar(&runOpts.async, "async", false, "Run asynchronously and receive the result on the main loop")
	flags.StringVar(&runOpts.configPath, "config", "", "YAML profile to load")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	return executeRun(cmd.Context(), runOpts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// executeRun runs args[0] with args[1:] and writes the outcome to stdout and
// stderr. A non-zero tool exit is returned as an exitStatusError.
func executeRun(ctx context.Context, flags runFlags, args []string, stdout, stderr io.Writer) error {
	opts, err := buildRunOptions(flags, stdout, stderr)
	if err != nil {
		return err
	}

	result, err := runTool(ctx, flags.async, args[0], args[1:], opts)
	if err != nil {
		return err
	}

	if !flags.lines {
		fmt.Fprint(stdout, result.Stdout)
		fmt.Fprint(stderr, result.Stderr)
	}

	if verbose {
		fmt.Fprint(stderr, result.Message)
	}

	if result.Err != nil {
		return result.Err
	}

	if result.ExitCode != 0 {
		return &exitStatusError{code: result.ExitCode}
	}

	return nil
}

func runTool(ctx context.Context, async bool, tool string, args []string, opts []toolrun.Option) (toolrun.Result, error) {
	if !async {
		return toolrun.Run(tool, args, opts...)
	}

	loop := toolrun.NewMainLoop(opts...)
	defer loop.Close()

	var result toolrun.Result

	err := toolrun.RunAsync(tool, args, func(r toolrun.Result) {
		result = r
		loop.Close()
	}, append(opts, toolrun.WithDispatcher(loop))...)
	if err != nil {
		return toolrun.Result{}, err
	}

	if err := loop.Run(ctx); err != nil {
		return toolrun.Result{}, err
	}

	return result, nil
}

func buildRunOptions(flags runFlags, stdout, stderr io.Writer) ([]toolrun.Option, error) {
	opts := []toolrun.Option{toolrun.WithLogger(newLogger(stderr))}

	if flags.configPath != "" {
		profile, err := toolrun.LoadProfile(flags.configPath)
		if err != nil {
			return nil, err
		}

		opts = append(opts, toolrun.WithProfile(profile))
	}

	if flags.dir != "" {
		opts = append(opts, toolrun.WithDir(flags.dir))
	}

	if len(flags.env) > 0 {
		env, err := parsePairs("--env", flags.env)
		if err != nil {
			return nil, err
		}

		opts = append(opts, toolrun.WithEnv(env))
	}

	if flags.shell {
		opts = append(opts, toolrun.WithShellExecution(true))
	}

	if flags.noRedirect {
		opts = append(opts, toolrun.WithShellRedirect(false))
	}

	if flags.lang != "" {
		opts = append(opts, toolrun.WithShellLang(flags.lang))
	}

	responses, err := parseResponses(flags.respond)
	if err != nil {
		return nil, err
	}

	if flags.lines || len(responses) > 0 {
		opts = append(opts, toolrun.WithLineHandler(newLinePrinter(flags.lines, responses, stdout, stderr)))
	}

	return opts, nil
}

// response is an automatic stdin answer.
type response struct {
	pattern string
	reply   string
}

func parseResponses(values []string) ([]response, error) {
	pairs := make([]response, 0, len(values))

	for _, v := range values {
		pattern, reply, ok := strings.Cut(v, "=")
		if !ok || pattern == "" {
			return nil, fmt.Errorf("invalid --respond %q: expected PATTERN=REPLY", v)
		}

		pairs = append(pairs, response{pattern: pattern, reply: reply})
	}

	return pairs, nil
}

func parsePairs(flag string, values []string) (map[string]string, error) {
	pairs := make(map[string]string, len(values))

	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s %q: expected KEY=VALUE", flag, v)
		}

		pairs[key] = value
	}

	return pairs, nil
}

// newLinePrinter prints prefixed lines when echo is set and answers prompts.
// A prompt matches either a complete stdout line or the unterminated stdout
// tail; an answered tail is printed and discarded so it is not matched again.
func newLinePrinter(echo bool, responses []response, stdout, stderr io.Writer) toolrun.LineFunc {
	var mu sync.Mutex

	echoLine := func(id toolrun.StreamID, text string) {
		if !echo {
			return
		}

		w := stdout
		if id == toolrun.Stderr {
			w = stderr
		}

		fmt.Fprintf(w, "[%s] %s\n", id, strings.TrimSuffix(text, "\n"))
	}

	answer := func(stdin io.WriteCloser, text string) bool {
		answered := false

		for _, r := range responses {
			if strings.Contains(text, r.pattern) {
				_, _ = io.WriteString(stdin, r.reply+"\n")
				answered = true
			}
		}

		return answered
	}

	return func(_ toolrun.Process, stdin io.WriteCloser, line toolrun.Chunk, pending toolrun.Pending) {
		mu.Lock()
		defer mu.Unlock()

		if !line.IsMarker() {
			echoLine(line.Stream, line.Text)

			if line.Stream == toolrun.Stdout && stdin != nil {
				answer(stdin, line.Text)
			}
		}

		if stdin == nil || len(responses) == 0 {
			return
		}

		tail := pending.Text(toolrun.Stdout)
		if tail == "" {
			return
		}

		if answer(stdin, tail) {
			echoLine(toolrun.Stdout, tail)
			pending.Discard()
		}
	}
}
