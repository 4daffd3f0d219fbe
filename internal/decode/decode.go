// Package decode turns raw MQTT payload bytes into validated readings.
package decode

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/JonasdeSouza/rusty-weather/internal/models"
)

// DecodeError reports a payload that could not be turned into a Reading.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Reason
}

// payload mirrors the JSON published by the station firmware. Pointer fields
// distinguish an absent key from a zero value.
type payload struct {
	Temperature *float64 `json:"temperatura"`
	Humidity    *float64 `json:"umidade"`
	Pressure    *float64 `json:"pressao"`
}

// Decode parses raw payload bytes from topic into a Reading observed at the
// given time. Unknown keys are ignored. A missing or non-finite required
// field rejects the whole payload; nothing is partially decoded. Decode has
// no side effects and always returns either a Reading or a *DecodeError.
func Decode(topic string, raw []byte, at time.Time) (models.Reading, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Reading{}, &DecodeError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	fields := []struct {
		name  string
		value *float64
	}{
		{"temperatura", p.Temperature},
		{"umidade", p.Humidity},
		{"pressao", p.Pressure},
	}
	for _, f := range fields {
		if f.value == nil {
			return models.Reading{}, &DecodeError{Reason: "missing field " + f.name}
		}
		if math.IsNaN(*f.value) || math.IsInf(*f.value, 0) {
			return models.Reading{}, &DecodeError{Reason: "non-finite value for " + f.name}
		}
	}

	return models.Reading{
		Topic:       topic,
		Temperature: *p.Temperature,
		Humidity:    *p.Humidity,
		Pressure:    *p.Pressure,
		ObservedAt:  at,
	}, nil
}
