package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_bridge_messages_ingested_total",
			Help: "Valid sensor messages applied to the reading store",
		},
		[]string{"topic"},
	)

	DecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_bridge_decode_errors_total",
			Help: "Discarded sensor messages that failed payload decoding",
		},
		[]string{"topic"},
	)

	ViewersConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_bridge_viewers_connected",
			Help: "Dashboard WebSocket connections currently registered",
		},
	)

	ViewersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_bridge_viewers_dropped_total",
			Help: "Viewers disconnected because their delivery buffer overflowed",
		},
	)

	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_bridge_broadcasts_total",
			Help: "Reading events fanned out to the viewer hub",
		},
	)
)
