package main

import (
	"fmt"
	"os"

	"github.com/pretextbook/pretext/cmd"
	"github.com/pretextbook/pretext/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(errors.ExitCode(err))
	}
}
