// Package sim publishes synthetic station readings for demos and local
// development, standing in for the ESP32 firmware.
package sim

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JonasdeSouza/rusty-weather/internal/models"
)

// Publisher is the slice of the MQTT client the simulator needs.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Simulator publishes a random-walk reading at a fixed interval.
type Simulator struct {
	pub      Publisher
	topic    string
	interval time.Duration
	current  models.Payload
}

func New(pub Publisher, topic string, interval time.Duration) *Simulator {
	return &Simulator{
		pub:      pub,
		topic:    topic,
		interval: interval,
		current: models.Payload{
			Temperature: 18 + rand.Float64()*10,
			Humidity:    30 + rand.Float64()*40,
			Pressure:    1000 + rand.Float64()*20,
		},
	}
}

// Run publishes until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.current = Step(s.current)
			payload, err := json.Marshal(s.current)
			if err != nil {
				log.Error().Err(err).Msg("failed to marshal simulated reading")
				continue
			}
			if err := s.pub.Publish(s.topic, payload); err != nil {
				log.Warn().Err(err).Str("topic", s.topic).Msg("failed to publish simulated reading")
			}
		}
	}
}

// Step nudges each value and keeps it inside plausible station bounds.
func Step(p models.Payload) models.Payload {
	return models.Payload{
		Temperature: clamp(p.Temperature+jitter(0.4), -10, 45),
		Humidity:    clamp(p.Humidity+jitter(1.5), 0, 100),
		Pressure:    clamp(p.Pressure+jitter(0.8), 950, 1050),
	}
}

func jitter(scale float64) float64 {
	return (rand.Float64()*2 - 1) * scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
