// Package coordinator wires the registry, supervisor, router, fusion engine,
// and bus into one process and owns their lifecycle.
package coordinator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/bus"
	"github.com/quadframe/statecoord/internal/config"
	"github.com/quadframe/statecoord/internal/fusion"
	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/monitoring"
	"github.com/quadframe/statecoord/internal/registry"
	"github.com/quadframe/statecoord/internal/router"
	"github.com/quadframe/statecoord/internal/supervisor"
)

// Options are the user-facing selections from the command line.
type Options struct {
	Primary  registry.Estimator
	Others   []registry.Estimator
	Throttle registry.Throttle
	SimDims  int
}

// Run sets everything up, launches the estimator fleet, and blocks until ctx
// ends. Every launched process gets a termination attempt on every exit path,
// including setup failures after launch and external interrupts.
func Run(ctx context.Context, cfg *config.Config, opts Options, log *logging.Logger) error {
	metrics := monitoring.NewMetrics()
	if cfg.Metrics.Enabled {
		monitoring.Serve(cfg.Metrics.Addr, log)
	}

	brokerURL := cfg.Bus.BrokerURL
	if cfg.Bus.Embedded {
		broker, err := bus.StartBroker(cfg.Bus.EmbeddedAddr, log)
		if err != nil {
			return fmt.Errorf("failed to start embedded broker: %w", err)
		}
		defer broker.Close()
		brokerURL = clientURL(cfg.Bus.EmbeddedAddr)
	}

	b, err := bus.Connect(bus.Config{
		BrokerURL:      brokerURL,
		ClientID:       "statecoord",
		ConnectTimeout: cfg.Bus.ConnectTimeout,
		OnDecodeError: func(topic string, _ error) {
			metrics.DecodeErrors.WithLabelValues(topic).Inc()
		},
	}, log)
	if err != nil {
		return err
	}
	defer b.Close()

	engine := fusion.New(
		fusion.Config{Policy: router.PolicyFor(opts.Primary)},
		fusion.NewGateway(b, cfg.Topics.Prefix),
		log, metrics,
	)

	// Subscriptions go up before any estimator starts so no early message
	// is lost.
	for _, sub := range router.ResolveSubscriptions(cfg.Topics.Prefix, opts.Primary) {
		handler := engine.OnPrimary
		if sub.Role == router.RoleAuxiliary {
			handler = engine.OnAuxiliary
		}
		if err := b.Subscribe(sub.Topic, handler); err != nil {
			return err
		}
		log.Info("subscribed",
			zap.String("topic", sub.Topic),
			zap.Bool("auxiliary", sub.Role == router.RoleAuxiliary),
		)
	}

	cmds, err := Plan(registry.New(opts.SimDims), opts.Primary, opts.Others, opts.Throttle)
	if err != nil {
		return err
	}

	sup := supervisor.New(supervisor.Config{
		Grace: cfg.Shutdown.Grace,
		ExtraEnv: []string{
			"BUS_BROKER_URL=" + brokerURL,
			"TOPIC_PREFIX=" + cfg.Topics.Prefix,
			"LOG_LEVEL=" + cfg.Logging.Level,
		},
	}, log)
	defer sup.ShutdownAll()

	started, launchErr := sup.Launch(cmds)
	metrics.ProcessesLaunched.Set(float64(len(started)))
	if launchErr != nil {
		metrics.LaunchErrors.Add(float64(len(cmds) - len(started)))
	}
	if len(started) == 0 {
		return fmt.Errorf("no estimator processes could be launched: %w", launchErr)
	}
	if launchErr != nil {
		// Degraded but still meaningful: fuse whatever did start.
		log.Warn("continuing with a partial estimator set", zap.Error(launchErr))
	}

	log.Info("coordinator running",
		zap.String("primary", string(opts.Primary)),
		zap.String("output", cfg.Topics.Prefix),
		zap.Int("processes", len(started)),
	)

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

// clientURL turns a listen address like ":1883" into a dialable broker URL.
func clientURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return "tcp://" + addr
}
