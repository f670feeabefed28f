// Package bus carries estimate records between processes over MQTT topics.
// Each channel is one topic at QoS 0 with no ordering guarantee across
// topics; handlers are dispatched off the client's router goroutine so a
// blocking handler never stalls delivery on other channels.
package bus

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/state"
)

// Handler consumes a decoded record from a subscribed channel.
type Handler func(*state.Record)

// Config holds client connection settings.
type Config struct {
	BrokerURL      string
	ClientID       string // defaults to a generated id
	ConnectTimeout time.Duration
	// OnDecodeError is invoked for every malformed payload before the
	// message is dropped. Optional.
	OnDecodeError func(topic string, err error)
}

// Bus is a connected MQTT client speaking the estimate record schema.
type Bus struct {
	client paho.Client
	cfg    Config
	log    *logging.Logger
}

// Connect dials the broker and blocks until the connection is up or the
// configured timeout elapses.
func Connect(cfg Config, log *logging.Logger) (*Bus, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = "statecoord-" + uuid.NewString()[:8]
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	client := paho.NewClient(clientOptions(cfg))
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("timed out connecting to broker %s", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to broker %s: %w", cfg.BrokerURL, err)
	}

	log.Info("connected to bus",
		zap.String("broker", cfg.BrokerURL),
		zap.String("client_id", cfg.ClientID),
	)
	return &Bus{client: client, cfg: cfg, log: log}, nil
}

func clientOptions(cfg Config) *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	// Handlers republish from inside message callbacks. Ordered dispatch
	// runs callbacks on the router goroutine, where a publish stalled by a
	// reconnect would block all delivery; unordered dispatch gives every
	// callback its own goroutine instead.
	opts.SetOrderMatters(false)
	return opts
}

// Subscribe binds a handler to a channel. Malformed payloads are logged and
// dropped; a handler is never invoked with a nil record and a decode failure
// never takes down the message loop.
func (b *Bus) Subscribe(topic string, h Handler) error {
	token := b.client.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
		rec, err := state.Decode(msg.Payload())
		if err != nil {
			b.log.Warn("dropping malformed record",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
			if b.cfg.OnDecodeError != nil {
				b.cfg.OnDecodeError(msg.Topic(), err)
			}
			return
		}
		h(rec)
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return nil
}

// Publish emits one record on a channel. One call, one message; nothing is
// batched or suppressed.
func (b *Bus) Publish(topic string, r *state.Record) error {
	payload, err := state.Encode(r)
	if err != nil {
		return err
	}
	token := b.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (b *Bus) Close() {
	b.client.Disconnect(250)
}
