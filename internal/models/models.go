package models

import "time"

// Reading is one decoded sensor observation. Values are immutable once
// decoded; the store replaces entries wholesale, never field by field.
type Reading struct {
	Topic       string    `json:"topic"`
	Temperature float64   `json:"temperatura"`
	Humidity    float64   `json:"umidade"`
	Pressure    float64   `json:"pressao"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Payload is the wire shape pushed to dashboard viewers and returned by the
// snapshot endpoint. It matches the JSON published by the station firmware.
type Payload struct {
	Temperature float64 `json:"temperatura"`
	Humidity    float64 `json:"umidade"`
	Pressure    float64 `json:"pressao"`
}

// Payload strips store metadata down to the viewer wire shape.
func (r Reading) Payload() Payload {
	return Payload{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Pressure:    r.Pressure,
	}
}
