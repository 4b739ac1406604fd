package service

import (
	"context"
	"sync/atomic"
	"time"

	"inferno/internal/logger"
	"inferno/internal/models"
	"inferno/internal/repository"

	"github.com/google/uuid"
)

const flushTimeout = 5 * time.Second

// RecorderConfig sizes the queue and sets the retention policy.
type RecorderConfig struct {
	Buffer     int           // queued events before Record starts dropping
	Retention  time.Duration // zero keeps events forever
	PruneEvery time.Duration
}

// RecorderStats counts what happened to recorded events.
type RecorderStats struct {
	Written int64 `json:"written"`
	Dropped int64 `json:"dropped"`
	Errors  int64 `json:"errors"`
	Pruned  int64 `json:"pruned"`
	Queued  int   `json:"queued"`
}

// EventRecorder persists controller events off the control path. Record
// never blocks; Run does the writing.
type EventRecorder struct {
	repo  repository.EventRepo
	cfg   RecorderConfig
	log   *logger.Logger
	queue chan models.SmokerEvent

	written atomic.Int64
	dropped atomic.Int64
	errors  atomic.Int64
	pruned  atomic.Int64
}

func NewEventRecorder(repo repository.EventRepo, cfg RecorderConfig, log *logger.Logger) *EventRecorder {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1
	}
	return &EventRecorder{
		repo:  repo,
		cfg:   cfg,
		log:   log.Named("events"),
		queue: make(chan models.SmokerEvent, cfg.Buffer),
	}
}

// Record queues e, assigning an id and timestamp if missing. A full queue
// drops the event with a warning.
func (r *EventRecorder) Record(e models.SmokerEvent) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	select {
	case r.queue <- e:
	default:
		r.dropped.Add(1)
		r.log.Warnw("event_dropped", "type", e.Type, "queue", cap(r.queue))
	}
}

// Run writes queued events until ctx is cancelled, then drains what is
// left. Old events are pruned on the PruneEvery interval when a retention
// is set.
func (r *EventRecorder) Run(ctx context.Context) error {
	var prune <-chan time.Time
	if r.cfg.Retention > 0 && r.cfg.PruneEvery > 0 {
		t := time.NewTicker(r.cfg.PruneEvery)
		defer t.Stop()
		prune = t.C
		r.prune(ctx)
	}

	for {
		select {
		case e := <-r.queue:
			r.write(ctx, e)
		case <-prune:
			r.prune(ctx)
		case <-ctx.Done():
			r.drain()
			return nil
		}
	}
}

// Stats returns current counters.
func (r *EventRecorder) Stats() RecorderStats {
	return RecorderStats{
		Written: r.written.Load(),
		Dropped: r.dropped.Load(),
		Errors:  r.errors.Load(),
		Pruned:  r.pruned.Load(),
		Queued:  len(r.queue),
	}
}

func (r *EventRecorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	for {
		select {
		case e := <-r.queue:
			r.write(ctx, e)
		default:
			r.log.Infow("event_recorder_stopped", "written", r.written.Load(), "dropped", r.dropped.Load())
			return
		}
	}
}

func (r *EventRecorder) write(ctx context.Context, e models.SmokerEvent) {
	if err := r.repo.Append(ctx, e); err != nil {
		r.errors.Add(1)
		r.log.Errorw("event_write_failed", "type", e.Type, "err", err)
		return
	}
	r.written.Add(1)
}

func (r *EventRecorder) prune(ctx context.Context) {
	n, err := r.repo.DeleteBefore(ctx, time.Now().Add(-r.cfg.Retention))
	if err != nil {
		r.log.Errorw("event_prune_failed", "err", err)
		return
	}
	if n > 0 {
		r.pruned.Add(n)
		r.log.Infow("events_pruned", "count", n, "retention", r.cfg.Retention)
	}
}
