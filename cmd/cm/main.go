// SPDX-License-Identifier: MIT
//
// Command cm is the connectivity-modifying cluster refiner's CLI
// entry point: a thin shim over the cobra root command that wires
// SIGINT into the context every subprocess invocation inherits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand()
	root.SetContext(ctx)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "cm:", err)
		os.Exit(1)
	}
}
