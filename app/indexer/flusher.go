package indexer

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/suiwatch/suix/pkg/db/analytics"
	"github.com/suiwatch/suix/pkg/ownership"
	redisclient "github.com/suiwatch/suix/pkg/redis"
	"go.uber.org/zap"
)

// Flusher drains the handler's buffered entries on a cron schedule
// and persists them to the analytics store, advancing the durable
// cursor and publishing a flushed event. It is the only consumer of
// ReadAndClear, keeping the sink strictly downstream of the
// classification path.
type Flusher struct {
	Logger  *zap.Logger
	Handler *ownership.Handler
	DB      *analytics.DB
	Redis   *redisclient.Client // nil disables notifications

	Cron     *cron.Cron
	CronSpec string

	// One flush at a time; an overrunning insert must not interleave
	// with the next tick.
	mu sync.Mutex

	lastFlushed uint64
}

// SetupScheduler sets up the cron scheduler for periodic flushes.
func (f *Flusher) SetupScheduler(ctx context.Context, logger cron.Logger) error {
	f.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(logger)))

	_, err := f.Cron.AddFunc(f.CronSpec, func() {
		if err := f.Flush(ctx); err != nil {
			f.Logger.Error("Flush failed", zap.Error(err))
		}
	})
	return err
}

// Flush drains and persists the current window. On insert failure the
// drained batch is requeued ahead of newer entries, so no record is
// lost and emission order is preserved; the next tick retries.
func (f *Flusher) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Read the watermark before draining: everything drained below
	// belongs to checkpoints at or before it.
	watermark := f.Handler.LastProcessed()
	entries := f.Handler.ReadAndClear()
	if len(entries) == 0 {
		return nil
	}

	start := time.Now()
	if err := f.DB.InsertOwnership(ctx, entries); err != nil {
		f.Handler.Requeue(entries)
		return err
	}
	if err := f.DB.SetCursor(ctx, watermark); err != nil {
		// Entries are persisted; a stale cursor only causes benign
		// re-delivery, which the ReplacingMergeTree dedupes.
		f.Logger.Warn("Unable to advance cursor", zap.Error(err))
	}
	f.lastFlushed = watermark

	f.Logger.Info("Flushed ownership entries",
		zap.Int("entries", len(entries)),
		zap.Uint64("checkpoint", watermark),
		zap.Duration("took", time.Since(start)))

	if f.Redis != nil {
		f.Redis.Publish(ctx, ownership.GetFlushedChannel(), ownership.CheckpointFlushedEvent{
			Event:      "ownership.flushed",
			Checkpoint: watermark,
			Entries:    len(entries),
			Timestamp:  time.Now().UTC(),
		})
	}
	return nil
}

// LastFlushed returns the checkpoint watermark of the last successful flush.
func (f *Flusher) LastFlushed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFlushed
}

// StartCron starts the cron scheduler.
func (f *Flusher) StartCron() {
	f.Cron.Start()
	f.Logger.Info("Flush scheduler started", zap.String("cronSpec", f.CronSpec))
}

// StopCron stops the cron scheduler and waits for a running flush.
func (f *Flusher) StopCron() {
	if f.Cron != nil {
		<-f.Cron.Stop().Done()
	}
}
