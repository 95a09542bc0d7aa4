package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/universus/internal/simload"
	"github.com/okian/universus/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	cfg, help, err := simload.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) || help {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	if _, err := simload.NewRunner(cfg).Run(ctx); err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
