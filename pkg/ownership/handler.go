package ownership

import (
	"context"
	"fmt"
	"sync"

	"github.com/suiwatch/suix/pkg/db/models/analytics"
	"github.com/suiwatch/suix/pkg/types"
	"go.uber.org/zap"
)

// MetadataCache is the type metadata dependency of the handler:
// resolution for classification, bulk eviction at trust boundaries.
type MetadataCache interface {
	Resolver
	Evict(ctx context.Context, addresses []string) error
}

// Handler is the checkpoint ingestion entry point. One lock guards
// the combined mutable state (accumulator window plus cache handle)
// from the first transaction of a checkpoint to the last, so
// checkpoints are processed sequentially even when delivered
// concurrently, and entries land in checkpoint-then-transaction-then-
// emission order.
type Handler struct {
	mu            sync.Mutex
	acc           *Accumulator
	builder       *Builder
	cache         MetadataCache
	logger        *zap.Logger
	lastProcessed uint64
}

func NewHandler(logger *zap.Logger, cache MetadataCache, filter Filter) *Handler {
	return &Handler{
		acc:     NewAccumulator(),
		builder: NewBuilder(cache, filter),
		cache:   cache,
		logger:  logger,
	}
}

// ProcessCheckpoint derives ownership entries for every transaction
// of the checkpoint, in order, and buffers them. Any error aborts the
// remaining transactions and surfaces to the caller; entries already
// appended for earlier transactions stay buffered (no rollback), so a
// failed checkpoint must be re-delivered whole by the scheduler that
// owns the durable offset.
func (h *Handler) ProcessCheckpoint(ctx context.Context, data *types.CheckpointData) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq := uint64(data.Summary.SequenceNumber)
	for _, tx := range data.Transactions {
		entries, err := h.builder.ProcessTransaction(ctx, &data.Summary, tx)
		if err != nil {
			return fmt.Errorf("checkpoint %d transaction %s: %w", seq, tx.Digest, err)
		}
		h.acc.Append(entries...)
	}

	if data.Summary.IsEndOfEpoch() {
		// System packages may be upgraded at the epoch change; stale
		// type metadata would silently misclassify objects. A failed
		// eviction fails the checkpoint so re-delivery retries it.
		if err := h.cache.Evict(ctx, types.SystemPackageAddresses()); err != nil {
			return fmt.Errorf("checkpoint %d: %w", seq, err)
		}
		h.logger.Info("Evicted system package metadata at epoch boundary",
			zap.Uint64("checkpoint", seq),
			zap.Uint64("epoch", uint64(data.Summary.Epoch)))
	}

	h.lastProcessed = seq
	h.logger.Debug("Processed checkpoint",
		zap.Uint64("checkpoint", seq),
		zap.Int("transactions", len(data.Transactions)),
		zap.Int("buffered", h.acc.Len()))
	return nil
}

// LastProcessed returns the sequence number of the last fully
// processed checkpoint. Read it before draining: entries returned by
// a subsequent ReadAndClear all belong to checkpoints at or below it.
func (h *Handler) LastProcessed() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastProcessed
}

// ReadAndClear atomically drains the buffered entries. It is polled
// by the export stage on its own schedule and never interleaves with
// an in-progress ProcessCheckpoint.
func (h *Handler) ReadAndClear() []*analytics.OwnershipEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acc.Drain()
}

// Requeue puts a drained batch back at the front of the buffer when
// the export stage failed to persist it.
func (h *Handler) Requeue(entries []*analytics.OwnershipEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.acc.Requeue(entries)
}

// Buffered returns the number of entries awaiting a drain.
func (h *Handler) Buffered() int {
	return h.acc.Len()
}
