package subprocess

import (
	stderrors "errors"
	"fmt"
	"os/exec"

	"github.com/wagiedev/toolrun-go/internal/config"
)

// process is the handle of a started command.
type process struct {
	cmd    *exec.Cmd
	exited chan struct{}
	code   int
}

// Compile-time verification that process implements config.Process.
var _ config.Process = (*process)(nil)

func newProcess(cmd *exec.Cmd) *process {
	return &process{
		cmd:    cmd,
		exited: make(chan struct{}),
		code:   ExitCodeUnavailable,
	}
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) Wait() int {
	<-p.exited

	return p.code
}

func (p *process) ExitCode() (int, bool) {
	select {
	case <-p.exited:
		return p.code, true
	default:
		return ExitCodeUnavailable, false
	}
}

// wait reaps the command and records its exit code. A non-zero exit is not
// an error; any other wait failure is returned.
func (p *process) wait() error {
	defer close(p.exited)

	err := p.cmd.Wait()
	if p.cmd.ProcessState != nil {
		p.code = p.cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return nil
	}

	if _, ok := stderrors.AsType[*exec.ExitError](err); ok {
		return nil
	}

	return fmt.Errorf("wait for pid %d: %w", p.cmd.Process.Pid, err)
}
