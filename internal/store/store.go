// Package store holds the latest reading per sensor topic. It is the only
// mutable state shared between the ingest loop and the HTTP read path.
package store

import (
	"sync"

	"github.com/JonasdeSouza/rusty-weather/internal/models"
)

type entry struct {
	reading models.Reading
	seq     uint64
}

// Store keeps the most recent valid reading for each topic, together with a
// per-topic sequence number that increments on every write. Entries are
// created on the first write for a topic and replaced wholesale afterwards;
// they are never deleted.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Write replaces the entry for the reading's topic and returns the topic's
// new sequence number. The critical section covers only the map update.
func (s *Store) Write(r models.Reading) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[r.Topic]
	e.reading = r
	e.seq++
	s.entries[r.Topic] = e
	return e.seq
}

// Read returns the latest reading for topic, or false if no valid reading
// has ever arrived on it.
func (s *Store) Read(topic string) (models.Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[topic]
	return e.reading, ok
}

// Seq returns the current sequence number for topic; zero means no reading
// has been stored yet.
func (s *Store) Seq(topic string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[topic].seq
}

// Snapshot returns the latest reading for every known topic.
func (s *Store) Snapshot() map[string]models.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Reading, len(s.entries))
	for topic, e := range s.entries {
		out[topic] = e.reading
	}
	return out
}
