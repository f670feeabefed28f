package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/config"
	"github.com/quadframe/statecoord/internal/coordinator"
	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/registry"
)

func main() {
	primary := flag.String("primary", string(registry.EMA),
		"Primary state estimator (ema|ukf2d|ukf7d|simulator)")
	others := flag.String("others", "",
		"Comma-separated estimators to run alongside without fusing into the output")
	ir := flag.Bool("ir-throttled", false, "Estimators read the throttled infrared topic")
	imu := flag.Bool("imu-throttled", false, "Estimators read the throttled IMU topic")
	opticalFlow := flag.Bool("optical-flow-throttled", false, "Estimators read the throttled optical flow topic")
	cameraPose := flag.Bool("camera-pose-throttled", false, "Estimators read the throttled camera pose topic")
	sdim := flag.Int("sdim", 1, "Spatial dimensions simulated by the drone simulator (1-3)")
	flag.Parse()

	cfg := config.LoadOrDefault()

	var log *logging.Logger
	if cfg.Logging.Development {
		log = logging.NewDevelopment()
	} else {
		log = logging.NewDefault()
	}
	defer log.Sync()

	prim, err := registry.Parse(*primary)
	if err != nil {
		log.Fatal("invalid primary estimator", zap.Error(err))
	}

	var extra []registry.Estimator
	for _, tok := range strings.Split(*others, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		est, err := registry.Parse(tok)
		if err != nil {
			log.Fatal("invalid estimator in -others", zap.Error(err))
		}
		extra = append(extra, est)
	}

	if *sdim < 1 || *sdim > 3 {
		log.Fatal("invalid -sdim, want 1, 2, or 3", zap.Int("sdim", *sdim))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = coordinator.Run(ctx, cfg, coordinator.Options{
		Primary: prim,
		Others:  extra,
		Throttle: registry.Throttle{
			IR:          *ir,
			IMU:         *imu,
			OpticalFlow: *opticalFlow,
			CameraPose:  *cameraPose,
		},
		SimDims: *sdim,
	}, log)
	if err != nil {
		log.Fatal("coordinator failed", zap.Error(err))
	}
}
