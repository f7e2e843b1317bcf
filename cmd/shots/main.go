// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command shots renders or captures frames and saves them through the shots
// capture pipeline.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gogpu/shots/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
