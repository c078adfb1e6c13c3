package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/suiwatch/suix/pkg/ownership"
	"github.com/suiwatch/suix/pkg/rpc"
	"github.com/suiwatch/suix/pkg/types"
	"go.uber.org/zap"
)

// Puller plays the external-scheduler role for the pipeline stage: it
// fetches checkpoints from the fullnode and delivers them to the
// handler strictly in sequence order, exactly once per offset per
// run. Fetches are prefetched concurrently through a bounded result
// pool; delivery stays sequential.
type Puller struct {
	Logger       *zap.Logger
	Client       rpc.Client
	Handler      *ownership.Handler
	Prefetch     int
	PollInterval time.Duration

	pool pond.ResultPool[*types.CheckpointData]
}

// NewPuller builds a puller with a prefetch pool of the given width.
func NewPuller(logger *zap.Logger, client rpc.Client, handler *ownership.Handler, prefetch int, pollInterval time.Duration) *Puller {
	if prefetch < 1 {
		prefetch = 1
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Puller{
		Logger:       logger,
		Client:       client,
		Handler:      handler,
		Prefetch:     prefetch,
		PollInterval: pollInterval,
		pool:         pond.NewResultPool[*types.CheckpointData](prefetch),
	}
}

// Run pulls checkpoints starting at the given sequence until the
// context is cancelled. A processing error halts the run and is
// returned to the caller: the stage holds no resumption state, so the
// failed checkpoint is re-delivered on the next run from the durable
// cursor.
func (p *Puller) Run(ctx context.Context, start uint64) error {
	defer p.pool.StopAndWait()

	next := start
	inflight := make(map[uint64]pond.Result[*types.CheckpointData])

	p.Logger.Info("Checkpoint puller starting",
		zap.Uint64("start", start),
		zap.Int("prefetch", p.Prefetch))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		head, err := p.Client.LatestCheckpointSequenceNumber(ctx)
		if err != nil {
			p.Logger.Warn("Unable to read chain head", zap.Error(err))
			if !p.sleep(ctx) {
				return nil
			}
			continue
		}

		if next > head {
			// Caught up; poll for new checkpoints.
			if !p.sleep(ctx) {
				return nil
			}
			continue
		}

		// Keep the prefetch window full.
		for seq := next; seq <= head && seq < next+uint64(p.Prefetch); seq++ {
			if _, ok := inflight[seq]; ok {
				continue
			}
			s := seq
			inflight[s] = p.pool.SubmitErr(func() (*types.CheckpointData, error) {
				return p.Client.CheckpointData(ctx, s)
			})
		}

		task := inflight[next]
		delete(inflight, next)
		data, err := task.Wait()
		if err != nil {
			// Fetch failures are transient; the same offset is
			// retried on the next loop iteration.
			p.Logger.Warn("Checkpoint fetch failed",
				zap.Uint64("checkpoint", next),
				zap.Error(err))
			if !p.sleep(ctx) {
				return nil
			}
			continue
		}

		if err := p.Handler.ProcessCheckpoint(ctx, data); err != nil {
			return fmt.Errorf("process checkpoint %d: %w", next, err)
		}
		next++
	}
}

func (p *Puller) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(p.PollInterval):
		return true
	}
}
