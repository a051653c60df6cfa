// Package main is the entry point for the sdprov CLI.
//
// sdprov creates the storage domain of a self-hosted engine deployment on
// NFS, POSIX compliant FS, GlusterFS, iSCSI or Fibre Channel storage. The
// domain is created by an ansible playbook; sdprov gathers and validates the
// parameters, runs discovery for block storage and retries until the domain
// is active.
//
// For detailed usage information, run:
//
//	sdprov --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/sdprov/cmd/sdprov/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
