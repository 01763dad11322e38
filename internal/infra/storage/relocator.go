package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tradeport/config"
	"tradeport/internal/domain/service"

	"go.uber.org/fx"
)

const (
	defaultRelocateRetries = 3
	defaultQueueSize       = 64
	retryBaseDelay         = 500 * time.Millisecond
	jobTimeout             = 2 * time.Minute
)

type jobKind int

const (
	jobRelocate jobKind = iota
	jobRemove
)

type relocateJob struct {
	kind jobKind
	src  string
	dst  string
}

// asyncRelocator runs blob housekeeping on a background worker so entity
// transactions never wait on object storage. Jobs are retried a bounded
// number of times; permanent failures are logged and dropped.
type asyncRelocator struct {
	store   service.BlobStore
	logger  *slog.Logger
	jobs    chan relocateJob
	retries int

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// RelocatorParams defines the required parameters
type RelocatorParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	Store  service.BlobStore
}

// NewRelocator builds the background relocator and ties its worker to the
// app lifecycle. OnStop drains the queue before shutdown.
func NewRelocator(params RelocatorParams) service.BlobRelocator {
	retries := defaultRelocateRetries
	queueSize := defaultQueueSize
	if params.Config.Blob != nil {
		if params.Config.Blob.RelocateRetries > 0 {
			retries = params.Config.Blob.RelocateRetries
		}
		if params.Config.Blob.QueueSize > 0 {
			queueSize = params.Config.Blob.QueueSize
		}
	}

	relocator := newAsyncRelocator(params.Store, params.Logger, retries, queueSize)

	params.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relocator.start()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return relocator.stop(ctx)
		},
	})

	return relocator
}

func newAsyncRelocator(store service.BlobStore, logger *slog.Logger, retries, queueSize int) *asyncRelocator {
	return &asyncRelocator{
		store:   store,
		logger:  logger,
		jobs:    make(chan relocateJob, queueSize),
		retries: retries,
	}
}

func (r *asyncRelocator) start() {
	r.wg.Add(1)
	go r.run()
}

// stop closes the queue and waits for in-flight jobs, bounded by ctx.
func (r *asyncRelocator) stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		close(r.jobs)
	})

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Relocate moves every object under srcPrefix to dstPrefix.
func (r *asyncRelocator) Relocate(srcPrefix, dstPrefix string) {
	r.enqueue(relocateJob{kind: jobRelocate, src: srcPrefix, dst: dstPrefix})
}

// Remove deletes every object under the given prefix.
func (r *asyncRelocator) Remove(prefix string) {
	r.enqueue(relocateJob{kind: jobRemove, src: prefix})
}

func (r *asyncRelocator) enqueue(job relocateJob) {
	select {
	case r.jobs <- job:
	default:
		// The queue is full. The operation that requested the move has
		// already committed, so all we can do is record the loss.
		r.logger.Warn("blob relocation queue full, dropping job",
			slog.String("src", job.src),
			slog.String("dst", job.dst),
		)
	}
}

func (r *asyncRelocator) run() {
	defer r.wg.Done()

	for job := range r.jobs {
		r.process(job)
	}
}

func (r *asyncRelocator) process(job relocateJob) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryBaseDelay * time.Duration(1<<(attempt-1)))
		}

		lastErr = r.execute(job)
		if lastErr == nil {
			return
		}
	}

	r.logger.Error("blob relocation failed permanently",
		slog.String("src", job.src),
		slog.String("dst", job.dst),
		slog.Int("attempts", r.retries+1),
		slog.String("error", lastErr.Error()),
	)
}

func (r *asyncRelocator) execute(job relocateJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	switch job.kind {
	case jobRelocate:
		if err := r.store.CopyPrefix(ctx, job.src, job.dst); err != nil {
			return err
		}

		return r.store.RemovePrefix(ctx, job.src)
	case jobRemove:
		return r.store.RemovePrefix(ctx, job.src)
	default:
		return nil
	}
}
