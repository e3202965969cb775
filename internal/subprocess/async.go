package subprocess

import (
	"github.com/wagiedev/toolrun-go/internal/command"
	"github.com/wagiedev/toolrun-go/internal/errors"
)

// RunAsync runs the tool like Run and delivers the Result to done through
// the configured Dispatcher.
//
// The run happens on a new goroutine unless SynchronousExecution is set, in
// which case it happens on the calling goroutine before RunAsync returns.
// Either way done is never invoked inline. A failed run is delivered as a
// Result with Err set and ExitCode equal to ExitCodeUnavailable.
//
// Returns ErrNoDispatcher if no Dispatcher is configured.
func (r *Runner) RunAsync(toolPath string, args []string, done func(Result)) error {
	dispatcher := r.options.Dispatcher
	if dispatcher == nil {
		return errors.ErrNoDispatcher
	}

	work := func() {
		result, err := r.Run(toolPath, args)
		if err != nil {
			r.log.Debug("Asynchronous run failed", "tool", toolPath, "error", err)

			result = failedResult(command.Display(toolPath, args), err)
		}

		if done != nil {
			dispatcher.Schedule(func() { done(result) })
		}
	}

	if r.options.SynchronousExecution {
		work()

		return nil
	}

	go work()

	return nil
}
