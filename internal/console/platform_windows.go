//go:build windows

package console

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type systemPlatform struct{}

func (systemPlatform) CodePages() (CodePages, error) {
	input, err := windows.GetConsoleCP()
	if err != nil {
		return CodePages{}, fmt.Errorf("get console input code page: %w", err)
	}

	output, err := windows.GetConsoleOutputCP()
	if err != nil {
		return CodePages{}, fmt.Errorf("get console output code page: %w", err)
	}

	return CodePages{Input: input, Output: output}, nil
}

func (systemPlatform) SetCodePages(pages CodePages) error {
	if err := windows.SetConsoleCP(pages.Input); err != nil {
		return fmt.Errorf("set console input code page: %w", err)
	}

	if err := windows.SetConsoleOutputCP(pages.Output); err != nil {
		return fmt.Errorf("set console output code page: %w", err)
	}

	return nil
}
