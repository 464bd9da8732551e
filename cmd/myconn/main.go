package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/myconn-db/myconn/internal/cli"
	"github.com/myconn-db/myconn/pkg/myconn"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(myconn.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(myconn.ExitCodeForError(err))
	}
}
