package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	laddercmd "github.com/louisbranch/sadari/internal/cmd/ladder"
	"github.com/louisbranch/sadari/internal/platform/config"
)

// main serves the ladder game over MCP on stdio or HTTP.
func main() {
	log.SetPrefix("[LADDER] ")
	cfg, err := laddercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := laddercmd.Run(ctx, cfg); err != nil {
		config.Exitf("serve ladder: %v", err)
	}
}
