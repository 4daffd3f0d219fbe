package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	MQTTBroker   string
	MQTTClientID string
	MQTTTopics   []string
	Port         string
	JWTSecret    string
	LogFile      string
	Simulator    bool
	SimTopic     string
	SimInterval  time.Duration
	ViewerBuffer int
}

// Load loads configuration from environment variables.
func Load() *Config {
	topics := strings.Split(getEnv("WEATHER_MQTT_TOPICS", "sensores/esp32"), ",")
	for i := range topics {
		topics[i] = strings.TrimSpace(topics[i])
	}

	return &Config{
		MQTTBroker:   getEnv("WEATHER_MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID: getEnv("WEATHER_MQTT_CLIENT_ID", "weather-bridge"),
		MQTTTopics:   topics,
		Port:         getEnv("PORT", "3000"),
		JWTSecret:    getEnv("WEATHER_JWT_SECRET", ""),
		LogFile:      getEnv("WEATHER_LOG_FILE", ""),
		Simulator:    getEnv("WEATHER_SIMULATOR", "false") == "true",
		SimTopic:     getEnv("WEATHER_SIM_TOPIC", "sensores/esp32"),
		SimInterval:  getDuration("WEATHER_SIM_INTERVAL", 5*time.Second),
		ViewerBuffer: getInt("WEATHER_VIEWER_BUFFER", 16),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
