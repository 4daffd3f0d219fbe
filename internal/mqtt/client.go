// Package mqtt wraps the paho client behind the event stream the ingest
// loop consumes.
package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/JonasdeSouza/rusty-weather/internal/ingest"
)

const eventBuffer = 256

// Client maintains the broker connection and feeds every received message
// into a channel of ingest events. Subscriptions are re-established by the
// OnConnect handler so they survive reconnects.
type Client struct {
	cli    paho.Client
	topics []string
	events chan ingest.Event
}

// Connect dials the broker and subscribes to the given topics. The returned
// client auto-reconnects until Close is called.
func Connect(broker, clientID string, topics []string) (*Client, error) {
	c := &Client{
		topics: topics,
		events: make(chan ingest.Event, eventBuffer),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("%s-%s", clientID, uuid.NewString()[:8])).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second).
		SetKeepAlive(30 * time.Second)

	opts.OnConnect = func(cli paho.Client) {
		log.Info().Str("broker", broker).Msg("connected to MQTT broker")
		for _, topic := range c.topics {
			token := cli.Subscribe(topic, 1, c.onMessage)
			token.Wait()
			if token.Error() != nil {
				log.Error().Err(token.Error()).Str("topic", topic).Msg("subscribe failed")
				continue
			}
			log.Info().Str("topic", topic).Msg("subscribed")
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	c.cli = paho.NewClient(opts)
	if token := c.cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", broker, token.Error())
	}
	return c, nil
}

func (c *Client) onMessage(_ paho.Client, msg paho.Message) {
	c.events <- ingest.Event{Topic: msg.Topic(), Payload: msg.Payload()}
}

// Events is the stream of raw (topic, payload) messages, in per-topic
// arrival order.
func (c *Client) Events() <-chan ingest.Event {
	return c.events
}

// Publish sends a payload fire-and-forget. Used by the simulated sensor.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.cli.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Connected reports the current broker connection state.
func (c *Client) Connected() bool {
	return c.cli.IsConnectionOpen()
}

// Close disconnects from the broker and ends the event stream, which in turn
// stops the ingest loop.
func (c *Client) Close() {
	c.cli.Disconnect(250)
	close(c.events)
}
