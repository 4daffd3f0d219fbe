// Standalone simulated sensor. Publishes synthetic readings to the broker
// the way the station firmware would, for testing the bridge without
// hardware.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/JonasdeSouza/rusty-weather/internal/config"
	"github.com/JonasdeSouza/rusty-weather/internal/mqtt"
	"github.com/JonasdeSouza/rusty-weather/internal/sim"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()

	client, err := mqtt.Connect(cfg.MQTTBroker, cfg.MQTTClientID+"-sensor", nil)
	if err != nil {
		log.Fatal().Err(err).Str("broker", cfg.MQTTBroker).Msg("failed to connect to MQTT broker")
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info().Str("topic", cfg.SimTopic).Dur("interval", cfg.SimInterval).Msg("simulated sensor started")
	go sim.New(client, cfg.SimTopic, cfg.SimInterval).Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down sensor...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	log.Info().Msg("sensor exited")
}
