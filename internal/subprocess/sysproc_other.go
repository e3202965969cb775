//go:build !windows

package subprocess

import (
	"os/exec"

	"github.com/wagiedev/toolrun-go/internal/command"
)

func configureSysProcAttr(*exec.Cmd, command.Launch) {}
