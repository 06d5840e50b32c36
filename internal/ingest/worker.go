package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/apex/log"

	"ship-tracker-backend/internal/model"
	"ship-tracker-backend/internal/store"
)

// ErrPoolClosed is returned by Dispatch after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// WorkerPool persists ingested records with a fixed number of workers.
type WorkerPool struct {
	size  int
	jobs  chan Job
	store store.Store

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:  size,
		jobs:  make(chan Job, size), // Buffered channel
		store: s,
	}
}

// Start launches the worker goroutines. Workers keep running until Close,
// so jobs already accepted are written even after ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Debugf("ingest worker %d started", id)
	for job := range wp.jobs {
		wp.process(ctx, job)
	}
	log.Debugf("ingest worker %d stopped", id)
}

// Dispatch blocks until the job is accepted or ctx is done.
func (wp *WorkerPool) Dispatch(ctx context.Context, job Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs, drains the queue and waits for the workers.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
	wp.mu.Unlock()
	wp.wg.Wait()
}

func (wp *WorkerPool) process(ctx context.Context, job Job) {
	switch job.Kind {
	case JobShip:
		if _, err := wp.store.UpsertShips(ctx, []model.ShipMetadata{job.Ship}); err != nil {
			log.WithError(err).WithField("user_id", job.Ship.UserID).Error("error saving ship data")
			return
		}
		log.WithFields(log.Fields{
			"user_id":     job.Ship.UserID,
			"name":        deref(job.Ship.Name),
			"destination": deref(job.Ship.Destination),
		}).Info("saved ship")
	case JobPosition:
		if _, err := wp.store.InsertPositions(ctx, []model.PositionReport{job.Position}); err != nil {
			log.WithError(err).WithField("user_id", job.Position.UserID).Error("error saving position data")
			return
		}
		log.WithField("user_id", job.Position.UserID).Debug("saved position")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
