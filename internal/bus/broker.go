package bus

import (
	"errors"
	"net"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/logging"
)

// Broker is an in-process MQTT broker, so a coordinator plus its estimator
// fleet needs no external infrastructure.
type Broker struct {
	server *mqtt.Server
	log    *logging.Logger
}

// StartBroker runs an open broker on the given TCP address.
func StartBroker(addr string, log *logging.Logger) (*Broker, error) {
	server := mqtt.New(&mqtt.Options{})
	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, err
	}

	tcp := listeners.NewTCP(listeners.Config{ID: "statecoord-tcp", Address: addr})
	if err := server.AddListener(tcp); err != nil {
		return nil, err
	}

	go func() {
		if err := server.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error("embedded broker stopped", zap.Error(err))
		}
	}()

	log.Info("embedded broker listening", zap.String("addr", addr))
	return &Broker{server: server, log: log}, nil
}

// Close shuts the broker down and disconnects all clients.
func (b *Broker) Close() error {
	return b.server.Close()
}
