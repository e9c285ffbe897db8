package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	a.report(err)
	if cerr := a.teardown(); cerr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "storefront: %v\n", cerr)
	}
	stop()
	if err != nil {
		os.Exit(1) //nolint:forbidigo // CLI must exit with failure status when a command fails.
	}
}
