// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/onelo-foundation/onelo/cmd/onelo/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (build with failed
		// files) return an error carrying the exit code. Don't print a
		// redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root(os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
}
