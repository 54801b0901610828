package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bolo-service/internal/gcal"
)

// ErrQueueFull is returned when the dispatch buffer is saturated.
var ErrQueueFull = errors.New("sync queue full")

var syncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "calendar_syncs_total",
	Help: "Calendar sync jobs by outcome.",
}, []string{"outcome"})

// Syncer is what the dispatcher runs; satisfied by *gcal.Engine.
type Syncer interface {
	Sync(ctx context.Context, bookingID string) (*gcal.Result, error)
}

// Outcome is the terminal result of one job.
type Outcome struct {
	Result *gcal.Result
	Err    error
}

// Job is one queued sync. Done receives exactly one Outcome.
type Job struct {
	ID        string
	BookingID string
	Done      chan Outcome
}

// Dispatcher runs calendar syncs off the request path on a single worker, so
// syncs for the same booking can never race each other.
type Dispatcher struct {
	syncer Syncer
	jobs   chan *Job
	log    *slog.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(s Syncer, buffer int, log *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		syncer: s,
		jobs:   make(chan *Job, buffer),
		log:    log,
	}
}

// Start launches the worker; it drains until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-d.jobs:
				d.process(ctx, job)
			}
		}
	}()
}

// Stop waits for the worker to exit after its context is cancelled.
func (d *Dispatcher) Stop() {
	d.wg.Wait()
}

// Enqueue queues a sync for the booking without blocking the caller. The
// returned job's Done channel delivers the outcome.
func (d *Dispatcher) Enqueue(bookingID string) (*Job, error) {
	job := &Job{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Done:      make(chan Outcome, 1),
	}
	select {
	case d.jobs <- job:
		return job, nil
	default:
		return nil, ErrQueueFull
	}
}

func (d *Dispatcher) process(ctx context.Context, job *Job) {
	res, err := d.syncer.Sync(ctx, job.BookingID)
	if err != nil {
		syncsTotal.WithLabelValues("error").Inc()
		d.log.Error("calendar sync failed",
			slog.String("job_id", job.ID),
			slog.String("booking_id", job.BookingID),
			slog.Any("error", err))
	} else {
		syncsTotal.WithLabelValues("ok").Inc()
		d.log.Info("calendar sync done",
			slog.String("job_id", job.ID),
			slog.String("booking_id", job.BookingID),
			slog.String("event_id", res.EventID),
			slog.Bool("created", res.Created))
	}
	job.Done <- Outcome{Result: res, Err: err}
}
