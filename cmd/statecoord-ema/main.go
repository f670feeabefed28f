package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/estimators"
	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/registry"
)

func main() {
	alpha := flag.Float64("alpha", 0.4, "Smoothing factor in (0, 1]")
	flag.Parse()

	log := logging.NewDefault()
	defer log.Sync()

	if *alpha <= 0 || *alpha > 1 {
		log.Fatal("invalid -alpha, want (0, 1]", zap.Float64("alpha", *alpha))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := estimators.Run(ctx, registry.EMA, estimators.NewEMA(*alpha), log); err != nil {
		log.Fatal("ema estimator failed", zap.Error(err))
	}
}
