// Package main provides a CLI over one journaled Brinkmanship game.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/brinkmanship/internal/platform/config"

	gamecmd "github.com/louisbranch/brinkmanship/internal/cmd/game"
)

func main() {
	log.SetPrefix("[GAME] ")
	cfg, err := gamecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gamecmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("game: %v", err)
	}
}
