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
	ir := flag.Bool("ir-throttled", false, "Read the throttled infrared topic")
	imu := flag.Bool("imu-throttled", false, "Read the throttled IMU topic")
	opticalFlow := flag.Bool("optical-flow-throttled", false, "Read the throttled optical flow topic")
	cameraPose := flag.Bool("camera-pose-throttled", false, "Read the throttled camera pose topic")
	flag.Parse()

	log := logging.NewDefault()
	defer log.Sync()

	worker, err := estimators.NewUKFWorker(estimators.UKFConfig{
		Estimator: registry.UKF7D,
		Throttle: registry.Throttle{
			IR:          *ir,
			IMU:         *imu,
			OpticalFlow: *opticalFlow,
			CameraPose:  *cameraPose,
		},
	})
	if err != nil {
		log.Fatal("failed to build filter", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := estimators.Run(ctx, registry.UKF7D, worker, log); err != nil {
		log.Fatal("ukf7d estimator failed", zap.Error(err))
	}
}
