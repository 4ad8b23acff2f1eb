package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-io/planttracker/internal/plant"
)

type fakeLister struct {
	mu    sync.Mutex
	due   []plant.Plant
	err   error
	calls int
}

func (f *fakeLister) FindDue(_ context.Context, _ time.Time) ([]plant.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]plant.Plant(nil), f.due...), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestScannerDispatchesDuePlants(t *testing.T) {
	thirsty := plant.Plant{ID: uuid.New(), Owner: "ines", Name: "Fern"}
	lister := &fakeLister{due: []plant.Plant{thirsty}}
	s := NewScanner(lister, 10*time.Millisecond, testLogger())

	var (
		mu   sync.Mutex
		seen []uuid.UUID
	)
	s.Register(func(_ context.Context, p plant.Plant) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, p.ID)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("handler was not called repeatedly")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	for _, id := range seen {
		if id != thirsty.ID {
			t.Errorf("unexpected plant id %s", id)
		}
	}
}

func TestScannerSurvivesStoreErrors(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	s := NewScanner(lister, 5*time.Millisecond, testLogger())
	s.Register(func(context.Context, plant.Plant) error {
		t.Error("handler must not fire when the scan fails")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for {
		lister.mu.Lock()
		n := lister.calls
		lister.mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("scanner stopped polling after errors")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestScannerHandlerErrorDoesNotStopOthers(t *testing.T) {
	lister := &fakeLister{due: []plant.Plant{{ID: uuid.New(), Owner: "ines"}}}
	s := NewScanner(lister, 5*time.Millisecond, testLogger())

	s.Register(func(context.Context, plant.Plant) error {
		return errors.New("notify failed")
	})

	called := make(chan struct{}, 1)
	s.Register(func(context.Context, plant.Plant) error {
		select {
		case called <- struct{}{}:
		default:
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("second handler never ran")
	}
}
