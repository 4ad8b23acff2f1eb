// Package reminder periodically scans for plants whose watering interval has
// elapsed and fires registered handlers for each one.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/verdant-io/planttracker/internal/plant"
)

// Handler is called once per due plant per scan. Handlers must be idempotent:
// a plant stays due until it is watered, so it is reported on every scan.
type Handler func(ctx context.Context, p plant.Plant) error

// DueLister returns the plants due for watering as of the given time.
// Satisfied by *storage.PlantStore.
type DueLister interface {
	FindDue(ctx context.Context, asOf time.Time) ([]plant.Plant, error)
}

// Scanner polls the store on a fixed interval and dispatches due plants to
// its handlers.
type Scanner struct {
	store    DueLister
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	handlers []Handler
}

func NewScanner(store DueLister, interval time.Duration, logger *slog.Logger) *Scanner {
	return &Scanner{store: store, interval: interval, logger: logger}
}

// Register adds a handler. Handlers registered after Start are picked up on
// the next scan.
func (s *Scanner) Register(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Start runs the scan loop until ctx is cancelled.
func (s *Scanner) Start(ctx context.Context) {
	s.logger.Info("reminder scanner started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scanner stopped")
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

func (s *Scanner) scan(ctx context.Context) {
	due, err := s.store.FindDue(ctx, time.Now())
	if err != nil {
		s.logger.Error("reminder scan failed", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.mu.Lock()
	handlers := append([]Handler(nil), s.handlers...)
	s.mu.Unlock()

	for _, p := range due {
		for _, h := range handlers {
			if err := h(ctx, p); err != nil {
				s.logger.Error("reminder handler failed",
					"plant_id", p.ID,
					"owner", p.Owner,
					"error", err,
				)
			}
		}
	}
	s.logger.Debug("reminder scan complete", "due", len(due))
}
