package main

import (
	"errors"
	"fmt"
	"os"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := Execute(); err != nil {
		var status *exitStatusError
		if errors.As(err, &status) {
			os.Exit(status.code)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
