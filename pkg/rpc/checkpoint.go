package rpc

import (
	"context"
	"fmt"

	"github.com/suiwatch/suix/pkg/types"
)

// LatestCheckpointSequenceNumber returns the highest finalized
// checkpoint sequence number the fullnode has seen.
func (c *HTTPClient) LatestCheckpointSequenceNumber(ctx context.Context) (uint64, error) {
	var seq types.Uint64
	if err := c.call(ctx, "sui_getLatestCheckpointSequenceNumber", nil, &seq); err != nil {
		return 0, fmt.Errorf("latest checkpoint: %w", err)
	}
	return uint64(seq), nil
}

// CheckpointData fetches a checkpoint with full transaction content:
// summary, ordered transactions, effects, and complete input/output
// object snapshots. This is the indexer-facing full-content endpoint,
// heavier than sui_getCheckpoint which returns the summary only.
func (c *HTTPClient) CheckpointData(ctx context.Context, sequence uint64) (*types.CheckpointData, error) {
	var data types.CheckpointData
	params := []any{fmt.Sprintf("%d", sequence)}
	if err := c.call(ctx, "sui_getFullCheckpoint", params, &data); err != nil {
		return nil, fmt.Errorf("checkpoint %d: %w", sequence, err)
	}
	if got := uint64(data.Summary.SequenceNumber); got != sequence {
		return nil, fmt.Errorf("checkpoint %d: fullnode returned sequence %d", sequence, got)
	}
	return &data, nil
}
