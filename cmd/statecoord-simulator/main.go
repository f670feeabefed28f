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
	dim := flag.Int("dim", 1, "Number of spatial dimensions to simulate (1-3)")
	flag.Parse()

	log := logging.NewDefault()
	defer log.Sync()

	if *dim < 1 || *dim > 3 {
		log.Fatal("invalid -dim, want 1, 2, or 3", zap.Int("dim", *dim))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := estimators.Run(ctx, registry.Simulator, estimators.NewSimulator(*dim), log); err != nil {
		log.Fatal("simulator failed", zap.Error(err))
	}
}
