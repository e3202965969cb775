// Package toolrun runs external command-line tools and collects their output.
//
// A tool is started either directly, with its stdout and stderr read
// concurrently through OS pipes, or wrapped in the platform shell (bash on
// POSIX, cmd.exe on Windows) with its output redirected to temporary files.
// Both streams are always drained in parallel so a chatty tool can never
// dead-lock on a full pipe.
//
// # Basic Usage
//
// For a blocking run, use the Run function:
//
//	result, err := toolrun.Run("/usr/bin/git", []string{"status", "--short"},
//	    toolrun.WithDir(repo),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Print(result.Stdout)
//	fmt.Println("exit code:", result.ExitCode)
//
// # Interactive Tools
//
// An IOHandler observes output while the tool runs and may answer on stdin.
// LineHandler wraps a handler so that it is called once per output line.
// Prompts usually end without a newline, so they never arrive as a line;
// pending holds them whenever the handler is called:
//
//	result, err := toolrun.Run(tool, nil,
//	    toolrun.WithLineHandler(func(_ toolrun.Process, stdin io.WriteCloser, line toolrun.Chunk, pending toolrun.Pending) {
//	        if strings.Contains(pending.Text(toolrun.Stdout), "Continue? [y/N]") {
//	            pending.Discard()
//	            io.WriteString(stdin, "y\n")
//	        }
//	    }),
//	)
//
// # Asynchronous Runs
//
// RunAsync returns immediately and delivers the Result through a Dispatcher,
// typically a MainLoop pumped by the application's main goroutine:
//
//	loop := toolrun.NewMainLoop()
//
//	err := toolrun.RunAsync(tool, args, func(r toolrun.Result) {
//	    fmt.Print(r.Message)
//	    loop.Close()
//	}, toolrun.WithDispatcher(loop))
//
//	_ = loop.Run(ctx)
//
// # Shell Mode
//
// WithShellExecution wraps the tool in the platform shell. Tool paths that
// contain a single quote (and batch files on Windows) run through the shell
// automatically; WithShellPatterns replaces the matching glob patterns. In
// shell mode IO handlers and environment overrides are not applied.
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	result, err := toolrun.Run(tool, args, toolrun.WithLogger(logger))
//
// # Error Handling
//
// Run returns typed errors for failures that prevent a Result:
//
//	result, err := toolrun.Run(tool, args)
//	if err != nil {
//	    if launchErr, ok := errors.AsType[*toolrun.LaunchError](err); ok {
//	        log.Fatalf("cannot start %s: %v", launchErr.ToolPath, launchErr.Err)
//	    }
//	    log.Fatal(err)
//	}
//
// A tool that starts but exits with a non-zero code is not an error; inspect
// Result.ExitCode instead.
package toolrun
