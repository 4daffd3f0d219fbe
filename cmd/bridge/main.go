package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/JonasdeSouza/rusty-weather/internal/api"
	"github.com/JonasdeSouza/rusty-weather/internal/auth"
	"github.com/JonasdeSouza/rusty-weather/internal/config"
	"github.com/JonasdeSouza/rusty-weather/internal/ingest"
	"github.com/JonasdeSouza/rusty-weather/internal/mqtt"
	"github.com/JonasdeSouza/rusty-weather/internal/sim"
	"github.com/JonasdeSouza/rusty-weather/internal/store"
	"github.com/JonasdeSouza/rusty-weather/internal/ws"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	// Shared reading store: constructed once, handed to the ingest loop
	// (writer) and the API (reader).
	readings := store.New()

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// MQTT transport
	transport, err := mqtt.Connect(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopics)
	if err != nil {
		log.Fatal().Err(err).Str("broker", cfg.MQTTBroker).Msg("failed to connect to MQTT broker")
	}
	defer transport.Close()

	// Ingest loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := ingest.New(readings, hub, transport.Events())
	go loop.Run(ctx)

	// Optional embedded sensor simulator for demo setups without hardware
	if cfg.Simulator {
		log.Info().Str("topic", cfg.SimTopic).Dur("interval", cfg.SimInterval).Msg("embedded simulator enabled")
		go sim.New(transport, cfg.SimTopic, cfg.SimInterval).Run(ctx)
	}

	if cfg.JWTSecret != "" {
		logBootstrapToken(cfg.JWTSecret)
	}

	srv := api.NewServer(cfg, readings, hub, transport)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Strs("topics", cfg.MQTTTopics).Msg("starting weather bridge")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // MB
			MaxBackups: 3,
		})
	}
	log.Logger = log.Output(out)
}

func logBootstrapToken(secret string) {
	token, err := auth.NewJWTManager(secret).GenerateViewerToken("bootstrap")
	if err != nil {
		log.Error().Err(err).Msg("failed to generate bootstrap viewer token")
		return
	}
	log.Info().Str("token", token).Msg("viewer auth enabled; bootstrap token")
}
