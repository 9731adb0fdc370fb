package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qudata/hostmon/internal/client"
	"github.com/qudata/hostmon/internal/domain"
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:9110", "hostmon server base URL")
	token := flag.String("token", os.Getenv("HOSTMON_TOKEN"), "access token")
	interval := flag.Duration("interval", time.Second, "refresh period")
	once := flag.Bool("once", false, "print one line and exit")
	debug := flag.Bool("debug", false, "log request failures")
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	c := client.NewClient(*addr, *token, logger)

	info, err := c.Capabilities(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hostmon-status: %v\n", err)
		os.Exit(1)
	}

	if *once {
		if err := printOnce(ctx, c, info.Capabilities); err != nil {
			fmt.Fprintf(os.Stderr, "hostmon-status: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		snap, err := c.Snapshot(ctx)
		switch {
		case errors.Is(err, client.ErrNotReady):
		case err != nil:
			logger.Warn("snapshot failed", "err", err)
		case snap.Seq != lastSeq:
			lastSeq = snap.Seq
			fmt.Println(formatLine(snap, info.Capabilities))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func printOnce(ctx context.Context, c *client.Client, caps domain.Capabilities) error {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Println(formatLine(snap, caps))
	return nil
}
