package store

import (
	"sync"
	"testing"
	"time"

	"github.com/JonasdeSouza/rusty-weather/internal/models"
)

func reading(topic string, v float64) models.Reading {
	return models.Reading{
		Topic:       topic,
		Temperature: v,
		Humidity:    v,
		Pressure:    v,
		ObservedAt:  time.Now(),
	}
}

func TestReadEmptyStore(t *testing.T) {
	s := New()
	if _, ok := s.Read("sensores/esp32"); ok {
		t.Fatal("expected no reading for an empty store")
	}
	if got := s.Seq("sensores/esp32"); got != 0 {
		t.Fatalf("expected seq 0, got %d", got)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := New()
	want := reading("sensores/esp32", 25.5)
	if seq := s.Write(want); seq != 1 {
		t.Fatalf("expected first seq 1, got %d", seq)
	}

	got, ok := s.Read("sensores/esp32")
	if !ok {
		t.Fatal("expected a reading after write")
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestWriteReplacesWholesale(t *testing.T) {
	s := New()
	s.Write(reading("sensores/esp32", 1))
	second := reading("sensores/esp32", 2)
	if seq := s.Write(second); seq != 2 {
		t.Fatalf("expected seq 2, got %d", seq)
	}

	got, _ := s.Read("sensores/esp32")
	if got != second {
		t.Fatalf("expected second reading, got %+v", got)
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	s := New()
	s.Write(reading("sensores/esp32", 1))
	s.Write(reading("sensores/esp32", 2))
	s.Write(reading("sensores/bmp280", 3))

	if got := s.Seq("sensores/esp32"); got != 2 {
		t.Fatalf("expected seq 2 for esp32, got %d", got)
	}
	if got := s.Seq("sensores/bmp280"); got != 1 {
		t.Fatalf("expected seq 1 for bmp280, got %d", got)
	}

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 topics in snapshot, got %d", len(snap))
	}
}

// Concurrent writers each store readings whose three values are identical;
// a torn write would surface as a reading with mixed values.
func TestConcurrentWritesNeverTear(t *testing.T) {
	s := New()
	const writers = 8
	const iterations = 200

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(base float64) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				s.Write(reading("sensores/esp32", base+float64(i)))
			}
		}(float64(w * 1000))
	}

	var readerWG sync.WaitGroup
	readerWG.Add(1)
	go func() {
		defer readerWG.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			r, ok := s.Read("sensores/esp32")
			if !ok {
				continue
			}
			if r.Temperature != r.Humidity || r.Humidity != r.Pressure {
				t.Errorf("torn read observed: %+v", r)
				return
			}
		}
	}()

	wg.Wait()
	close(done)
	readerWG.Wait()

	if got := s.Seq("sensores/esp32"); got != writers*iterations {
		t.Fatalf("expected seq %d, got %d", writers*iterations, got)
	}
}
