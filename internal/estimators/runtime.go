// Package estimators holds the worker runtime and the estimation models
// behind the external estimator processes the coordinator launches. Each
// worker connects to the bus, steps its model at a fixed cadence, and
// publishes estimate records on its own channel.
package estimators

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/bus"
	"github.com/quadframe/statecoord/internal/config"
	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/registry"
	"github.com/quadframe/statecoord/internal/router"
	"github.com/quadframe/statecoord/internal/state"
)

// defaultRate is the publish cadence of every worker.
const defaultRate = 33 * time.Millisecond

// Worker produces the next estimate each tick.
type Worker interface {
	Step(dt float64) *state.Record
}

// Run drives a worker until ctx ends. Bus location and channel prefix come
// from the environment, which the coordinator sets on every launched process.
func Run(ctx context.Context, est registry.Estimator, w Worker, log *logging.Logger) error {
	cfg := config.LoadOrDefault()

	b, err := bus.Connect(bus.Config{
		BrokerURL:      cfg.Bus.BrokerURL,
		ClientID:       "statecoord-" + string(est),
		ConnectTimeout: cfg.Bus.ConnectTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer b.Close()

	topic := router.Topic(cfg.Topics.Prefix, est)
	log.Info("estimator publishing",
		zap.String("estimator", string(est)),
		zap.String("topic", topic),
	)

	ticker := time.NewTicker(defaultRate)
	defer ticker.Stop()

	dt := defaultRate.Seconds()
	for {
		select {
		case <-ctx.Done():
			log.Info("estimator stopping", zap.String("estimator", string(est)))
			return nil
		case <-ticker.C:
			rec := w.Step(dt)
			if rec == nil {
				continue
			}
			if err := b.Publish(topic, rec); err != nil {
				log.Warn("publish failed", zap.Error(err))
			}
		}
	}
}
