package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/qudata/hostmon/internal/agent"
	"github.com/qudata/hostmon/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default $HOSTMON_CONFIG)")
	listen := flag.String("listen", "", "override listen address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	logger, err := config.NewLogger(cfg, "hostmon")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting hostmon",
		"version", config.Version,
		"build_time", config.BuildTime,
		"debug", cfg.Debug,
	)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	a, err := agent.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create agent", "err", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("hostmon exited with error", "err", err)
		os.Exit(1)
	}
}
