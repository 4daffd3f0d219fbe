package models

// ReadingEvent pairs a stored reading with its per-topic sequence number.
// The sequence lets viewer connections discard duplicate or out-of-order
// pushes for a topic.
type ReadingEvent struct {
	Reading Reading `json:"reading"`
	Seq     uint64  `json:"seq"`
}
