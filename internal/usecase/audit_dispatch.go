package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/arenaops/matchdesk/internal/domain/matchevent"
	"github.com/arenaops/matchdesk/internal/platform/logging"
)

const defaultAuditTimeout = 5 * time.Second

// EventBroadcaster fans derived events out to interested consumers after
// they are persisted. Failures are logged, never surfaced.
type EventBroadcaster interface {
	PublishEvents(ctx context.Context, fixtureID string, events []matchevent.Event) error
}

// AuditDispatcher writes derived timeline batches on a bounded worker pool
// after the fixture mutation has already committed. The write is
// best-effort: any failure lands in the dead-letter log and the request
// that triggered it still succeeds.
type AuditDispatcher struct {
	pool        *ants.Pool
	events      matchevent.Repository
	broadcaster EventBroadcaster
	logger      *logging.Logger
	timeout     time.Duration
	wg          sync.WaitGroup
}

func NewAuditDispatcher(workers int, events matchevent.Repository, logger *logging.Logger) (*AuditDispatcher, error) {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &AuditDispatcher{
		pool:    pool,
		events:  events,
		logger:  logger,
		timeout: defaultAuditTimeout,
	}, nil
}

func (d *AuditDispatcher) SetBroadcaster(b EventBroadcaster) {
	d.broadcaster = b
}

// Dispatch hands the batch to the pool and returns immediately. A full
// pool does not block the caller; the batch goes straight to the
// dead-letter log instead.
func (d *AuditDispatcher) Dispatch(events []matchevent.Event) {
	if len(events) == 0 {
		return
	}

	batch := append([]matchevent.Event(nil), events...)
	d.wg.Add(1)
	err := d.pool.Submit(func() {
		defer d.wg.Done()
		d.append(batch)
	})
	if err != nil {
		d.wg.Done()
		d.deadLetter(batch, err)
	}
}

// Wait blocks until every dispatched batch has been attempted. Used by
// tests and graceful shutdown.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

func (d *AuditDispatcher) Close() {
	d.wg.Wait()
	d.pool.Release()
}

func (d *AuditDispatcher) append(batch []matchevent.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.events.AppendBatch(ctx, batch); err != nil {
		d.deadLetter(batch, err)
		return
	}

	if d.broadcaster == nil {
		return
	}
	if err := d.broadcaster.PublishEvents(ctx, batch[0].FixtureID, batch); err != nil {
		d.logger.WarnContext(ctx, "timeline broadcast failed",
			"fixture_id", batch[0].FixtureID,
			"event_count", len(batch),
			"error", err,
		)
	}
}

func (d *AuditDispatcher) deadLetter(batch []matchevent.Event, err error) {
	d.logger.Error("timeline append dead-letter",
		"fixture_id", batch[0].FixtureID,
		"event_count", len(batch),
		"error", err,
	)
}
