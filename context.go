// Package solbuild provides the process-lifecycle helpers cmd/solbuild
// uses around a build or clean invocation: an interruptible root
// context and an at-exit hook registry.
package solbuild

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// InterruptibleContext returns a context canceled on the first SIGINT
// or SIGTERM. The solution builder consults it only while resolving
// root project specs; its build loop does not stop on cancellation. A
// second signal exits the process directly with status 130.
func InterruptibleContext() (context.Context, context.CancelFunc) {
	ctx, canc := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go watchSignals(sig, canc)
	return ctx, canc
}

func watchSignals(sig <-chan os.Signal, canc context.CancelFunc) {
	first := <-sig
	canc()
	second := <-sig
	fmt.Fprintf(os.Stderr, "solbuild: received %v after %v, exiting immediately\n", second, first)
	os.Exit(130)
}
