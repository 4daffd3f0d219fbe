// Package ingest consumes raw transport events and applies them to the
// shared reading store.
package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JonasdeSouza/rusty-weather/internal/decode"
	"github.com/JonasdeSouza/rusty-weather/internal/metrics"
	"github.com/JonasdeSouza/rusty-weather/internal/models"
	"github.com/JonasdeSouza/rusty-weather/internal/store"
)

// Event is one raw message consumed from the pub/sub transport.
type Event struct {
	Topic   string
	Payload []byte
}

// Broadcaster receives each newly stored reading for viewer fan-out.
type Broadcaster interface {
	Broadcast(models.ReadingEvent)
}

// Loop decodes transport events, writes valid readings to the store and
// notifies the broadcaster. A malformed message is logged and discarded;
// ingestion of subsequent messages continues.
type Loop struct {
	store  *store.Store
	hub    Broadcaster
	events <-chan Event
	now    func() time.Time
}

func New(s *store.Store, hub Broadcaster, events <-chan Event) *Loop {
	return &Loop{store: s, hub: hub, events: events, now: time.Now}
}

// Run consumes events until the channel closes or ctx is cancelled. The loop
// is only ever stopped by process shutdown or transport exhaustion.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-l.events:
			if !ok {
				log.Warn().Msg("transport stream ended, stopping ingest loop")
				return
			}
			l.handle(ev)
		}
	}
}

func (l *Loop) handle(ev Event) {
	reading, err := decode.Decode(ev.Topic, ev.Payload, l.now())
	if err != nil {
		metrics.DecodeErrors.WithLabelValues(ev.Topic).Inc()
		log.Warn().Err(err).Str("topic", ev.Topic).Msg("discarding malformed payload")
		return
	}

	if reading.Humidity < 0 || reading.Humidity > 100 {
		log.Warn().Float64("umidade", reading.Humidity).Str("topic", ev.Topic).
			Msg("humidity outside expected range")
	}

	seq := l.store.Write(reading)
	metrics.MessagesIngested.WithLabelValues(ev.Topic).Inc()
	log.Debug().Str("topic", ev.Topic).Uint64("seq", seq).
		Float64("temperatura", reading.Temperature).
		Float64("umidade", reading.Humidity).
		Float64("pressao", reading.Pressure).
		Msg("reading stored")

	l.hub.Broadcast(models.ReadingEvent{Reading: reading, Seq: seq})
}
