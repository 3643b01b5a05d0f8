// Package main is the entry point for the hyperarmor tool.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/samdwyer/hyperarmor/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
