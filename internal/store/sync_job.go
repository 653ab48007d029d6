package store

import (
	"context"
	"sync"
	"time"

	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/models"
)

const defaultRetryInterval = 5 * time.Minute

// SyncJob periodically retries the collection push after a failed
// sync, so a collection mutated while offline eventually reaches the
// server without user action. Successful and idle states are left
// alone; the job only acts on SyncError.
type SyncJob struct {
	store    *CollectionStore
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob over the given store. The job is idle
// until Start is called. A non-positive interval defaults to 5 minutes.
func NewSyncJob(s *CollectionStore, interval time.Duration, log *logger.Logger) *SyncJob {
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	return &SyncJob{store: s, interval: interval, logger: log}
}

// Start stops any previously running job, then launches a background
// goroutine that retries failed pushes every interval. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *SyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.retry(jobCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has fully
// exited. Safe to call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *SyncJob) retry(ctx context.Context) {
	if j.store.SyncStatus().State != models.SyncError {
		return
	}

	j.logger.Debug().Msg("retrying failed collection push")
	if err := j.store.SyncCollection(ctx); err != nil {
		j.logger.Debug().Err(err).Msg("collection push retry failed")
	}
}
