package fusion

import (
	"github.com/quadframe/statecoord/internal/bus"
	"github.com/quadframe/statecoord/internal/state"
)

// Gateway publishes fused records on the single public output channel.
type Gateway struct {
	bus   *bus.Bus
	topic string
}

// NewGateway binds the output channel.
func NewGateway(b *bus.Bus, topic string) *Gateway {
	return &Gateway{bus: b, topic: topic}
}

// Publish emits one record. Every invocation produces exactly one message.
func (g *Gateway) Publish(r *state.Record) error {
	return g.bus.Publish(g.topic, r)
}
