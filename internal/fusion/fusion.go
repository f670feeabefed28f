// Package fusion assembles the single authoritative output record from the
// primary channel and, when the topology calls for it, the auxiliary cache.
package fusion

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/monitoring"
	"github.com/quadframe/statecoord/internal/state"
)

// Publisher emits one fused record per call on the output channel.
type Publisher interface {
	Publish(*state.Record) error
}

// auxCache is the single mutable slot holding the latest planar fields seen
// on the auxiliary channel. Zero-valued until the first auxiliary message, so
// fusion before that yields well-formed neutral output rather than an error.
// Guarded by a mutex: the bus may deliver the two channels on different
// goroutines, and fusion must read a consistent four-field snapshot.
type auxCache struct {
	mu               sync.Mutex
	x, y, velX, velY float64
}

func (c *auxCache) store(msg *state.Record) {
	c.mu.Lock()
	c.x = msg.Position.X
	c.y = msg.Position.Y
	c.velX = msg.Velocity.X
	c.velY = msg.Velocity.Y
	c.mu.Unlock()
}

func (c *auxCache) snapshot() state.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return state.Record{
		Position: state.Vector3{X: c.x, Y: c.y},
		Velocity: state.Vector3{X: c.velX, Y: c.velY},
	}
}

// Config holds fusion engine settings.
type Config struct {
	Policy state.MergePolicy
	// Clock supplies the fusion timestamp. Defaults to time.Now.
	Clock func() time.Time
}

// Engine merges messages per the configured policy and hands every result to
// the publisher: one publish per primary message, no coalescing, no drops.
type Engine struct {
	cfg     Config
	out     *state.Record // reused output record, guarded by mu
	mu      sync.Mutex
	cache   auxCache
	gateway Publisher
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates a fusion engine. metrics may be nil.
func New(cfg Config, gateway Publisher, log *logging.Logger, metrics *monitoring.Metrics) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Engine{
		cfg:     cfg,
		out:     state.NewRecord(),
		gateway: gateway,
		log:     log,
		metrics: metrics,
	}
}

// OnPrimary fuses one primary-channel message and publishes the result. The
// output stamp is the fusion time, not the measurement time: the two input
// streams are asynchronous and downstream needs one coherent publish time.
func (e *Engine) OnPrimary(msg *state.Record) {
	e.mu.Lock()
	aux := e.cache.snapshot()
	e.cfg.Policy.Merge(e.out, msg, &aux, e.cfg.Clock())
	if e.metrics != nil {
		e.metrics.FusionsTotal.Inc()
	}

	err := e.gateway.Publish(e.out)
	e.mu.Unlock()

	if err != nil {
		e.log.Error("failed to publish fused record", zap.Error(err))
		if e.metrics != nil {
			e.metrics.PublishErrors.Inc()
		}
		return
	}
	if e.metrics != nil {
		e.metrics.PublishesTotal.Inc()
	}
}

// OnAuxiliary overwrites the cached planar fields with the message's. It
// never triggers a publish; the auxiliary source only supplements the next
// fusion.
func (e *Engine) OnAuxiliary(msg *state.Record) {
	e.cache.store(msg)
	if e.metrics != nil {
		e.metrics.AuxUpdatesTotal.Inc()
	}
}
