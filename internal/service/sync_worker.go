package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

// SyncWorker runs the storage reconciliation on a fixed schedule and
// keeps the last report around for the sync status endpoint. Runs are
// single-flight: a manual trigger arriving mid-run gets the in-flight
// run's semantics, never a second concurrent pass.
type SyncWorker struct {
	svc      *SyncService
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	last    *model.SyncReport
}

// NewSyncWorker builds a worker. interval <= 0 disables the schedule;
// manual triggers still work.
func NewSyncWorker(svc *SyncService, interval time.Duration, log zerolog.Logger) *SyncWorker {
	return &SyncWorker{svc: svc, interval: interval, log: log}
}

// Start blocks until ctx is cancelled, running one pass per interval.
func (w *SyncWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info().Msg("sync-worker: schedule disabled")
		<-ctx.Done()
		return
	}

	w.log.Info().Dur("interval", w.interval).Msg("sync-worker: starting")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Trigger(ctx); err != nil && err != ErrSyncInProgress {
				w.log.Error().Err(err).Msg("sync-worker: scheduled run failed")
			}
		case <-ctx.Done():
			w.log.Info().Msg("sync-worker: stopping")
			return
		}
	}
}

// Trigger runs one reconciliation pass now. Returns ErrSyncInProgress
// when a pass is already running.
func (w *SyncWorker) Trigger(ctx context.Context) (*model.SyncReport, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	report, err := w.svc.Run(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.last = report
	w.mu.Unlock()

	return report, nil
}

// LastReport returns the most recent completed report, or nil.
func (w *SyncWorker) LastReport() *model.SyncReport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
