package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// HandleFatalError logs the error and exits. Command handlers call it
// for failures the user cannot recover from within the command.
func HandleFatalError(message string, err error) {
	if err != nil {
		slog.Error(message, "error", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
	} else {
		slog.Error(message)
		fmt.Fprintln(os.Stderr, message)
	}
	os.Exit(1)
}
