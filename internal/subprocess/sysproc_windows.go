//go:build windows

package subprocess

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/wagiedev/toolrun-go/internal/command"
)

// configureSysProcAttr starts the tool without a console window and, for
// shell launches, passes the prepared cmd.exe command line verbatim.
func configureSysProcAttr(cmd *exec.Cmd, launch command.Launch) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
		CmdLine:       launch.CmdLine,
	}
}
