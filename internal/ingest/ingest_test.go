package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/JonasdeSouza/rusty-weather/internal/models"
	"github.com/JonasdeSouza/rusty-weather/internal/store"
)

type captureBroadcaster struct {
	events chan models.ReadingEvent
}

func newCapture() *captureBroadcaster {
	return &captureBroadcaster{events: make(chan models.ReadingEvent, 32)}
}

func (c *captureBroadcaster) Broadcast(ev models.ReadingEvent) {
	c.events <- ev
}

func (c *captureBroadcaster) next(t *testing.T) models.ReadingEvent {
	t.Helper()
	select {
	case ev := <-c.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
	return models.ReadingEvent{}
}

func runLoop(t *testing.T) (*store.Store, *captureBroadcaster, chan Event) {
	t.Helper()
	s := store.New()
	hub := newCapture()
	events := make(chan Event, 16)

	loop := New(s, hub, events)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)

	return s, hub, events
}

func TestValidPayloadIsStoredAndBroadcast(t *testing.T) {
	s, hub, events := runLoop(t)

	events <- Event{Topic: "sensores/esp32", Payload: []byte(`{"temperatura":25.5,"umidade":60.0,"pressao":1013.2}`)}

	ev := hub.next(t)
	if ev.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", ev.Seq)
	}
	if ev.Reading.Temperature != 25.5 || ev.Reading.Humidity != 60.0 || ev.Reading.Pressure != 1013.2 {
		t.Fatalf("unexpected broadcast reading: %+v", ev.Reading)
	}

	stored, ok := s.Read("sensores/esp32")
	if !ok {
		t.Fatal("expected reading in store")
	}
	if stored != ev.Reading {
		t.Fatalf("store and broadcast disagree: %+v vs %+v", stored, ev.Reading)
	}
}

func TestMalformedPayloadLeavesStoreUntouched(t *testing.T) {
	s, hub, events := runLoop(t)

	events <- Event{Topic: "sensores/esp32", Payload: []byte(`{"temperatura":}`)}

	// The loop must keep consuming after a decode failure.
	events <- Event{Topic: "sensores/esp32", Payload: []byte(`{"temperatura":20.0,"umidade":50.0,"pressao":1000.0}`)}

	ev := hub.next(t)
	if ev.Seq != 1 {
		t.Fatalf("expected the malformed message to be skipped, got seq %d", ev.Seq)
	}
	if got := s.Seq("sensores/esp32"); got != 1 {
		t.Fatalf("expected a single store write, got seq %d", got)
	}
}

func TestMalformedPayloadPreservesPreviousReading(t *testing.T) {
	s, hub, events := runLoop(t)

	events <- Event{Topic: "sensores/esp32", Payload: []byte(`{"temperatura":25.5,"umidade":60.0,"pressao":1013.2}`)}
	hub.next(t)

	events <- Event{Topic: "sensores/esp32", Payload: []byte(`not json at all`)}

	// Drain through a second valid message so the bad one has been handled.
	events <- Event{Topic: "sensores/outro", Payload: []byte(`{"temperatura":1,"umidade":2,"pressao":3}`)}
	hub.next(t)

	stored, ok := s.Read("sensores/esp32")
	if !ok || stored.Temperature != 25.5 {
		t.Fatalf("previous reading not preserved: %+v ok=%v", stored, ok)
	}
}

func TestSequencesFollowWriteOrder(t *testing.T) {
	_, hub, events := runLoop(t)

	for i := 0; i < 5; i++ {
		events <- Event{Topic: "sensores/esp32", Payload: []byte(`{"temperatura":20.0,"umidade":50.0,"pressao":1000.0}`)}
	}

	for i := 1; i <= 5; i++ {
		ev := hub.next(t)
		if ev.Seq != uint64(i) {
			t.Fatalf("expected seq %d, got %d", i, ev.Seq)
		}
	}
}

func TestRunStopsWhenStreamEnds(t *testing.T) {
	s := store.New()
	hub := newCapture()
	events := make(chan Event)

	loop := New(s, hub, events)
	done := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(done)
	}()

	close(events)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on transport exhaustion")
	}
}
