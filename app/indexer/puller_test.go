package indexer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/suiwatch/suix/pkg/ownership"
	"github.com/suiwatch/suix/pkg/types"
)

type fakeChain struct {
	mu       sync.Mutex
	head     uint64
	failOnce map[uint64]error
	served   []uint64
}

func (c *fakeChain) LatestCheckpointSequenceNumber(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head, nil
}

func (c *fakeChain) CheckpointData(_ context.Context, sequence uint64) (*types.CheckpointData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failOnce[sequence]; ok {
		delete(c.failOnce, sequence)
		return nil, err
	}
	c.served = append(c.served, sequence)
	return &types.CheckpointData{
		Summary: types.CheckpointSummary{
			Epoch:          1,
			SequenceNumber: types.Uint64(sequence),
			TimestampMs:    1719849600000,
		},
	}, nil
}

func (c *fakeChain) PackageObject(context.Context, string) (*types.MovePackage, error) {
	return nil, errors.New("not used")
}

type nopCache struct{}

func (nopCache) Resolve(_ context.Context, obj *types.ObjectSnapshot) (string, error) {
	return obj.Type, nil
}

func (nopCache) Evict(context.Context, []string) error { return nil }

func waitForCheckpoint(t *testing.T, h *ownership.Handler, want uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if h.LastProcessed() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("handler stuck at checkpoint %d, want %d", h.LastProcessed(), want)
}

func TestPullerDeliversInOrderUpToHead(t *testing.T) {
	chain := &fakeChain{head: 14}
	handler := ownership.NewHandler(zaptest.NewLogger(t), nopCache{}, ownership.Filter{})
	p := NewPuller(zaptest.NewLogger(t), chain, handler, 4, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, 10) }()

	waitForCheckpoint(t, handler, 14)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, uint64(14), handler.LastProcessed())
	chain.mu.Lock()
	defer chain.mu.Unlock()
	seen := map[uint64]bool{}
	for _, seq := range chain.served {
		assert.False(t, seen[seq], "checkpoint %d fetched twice", seq)
		seen[seq] = true
	}
	for seq := uint64(10); seq <= 14; seq++ {
		assert.True(t, seen[seq], "checkpoint %d never fetched", seq)
	}
}

func TestPullerRetriesFailedFetch(t *testing.T) {
	chain := &fakeChain{
		head:     3,
		failOnce: map[uint64]error{2: errors.New("timeout")},
	}
	handler := ownership.NewHandler(zaptest.NewLogger(t), nopCache{}, ownership.Filter{})
	p := NewPuller(zaptest.NewLogger(t), chain, handler, 2, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, 1) }()

	waitForCheckpoint(t, handler, 3)
	cancel()
	require.NoError(t, <-done)
}

func TestPullerStopsWhenCancelled(t *testing.T) {
	chain := &fakeChain{head: 0}
	handler := ownership.NewHandler(zaptest.NewLogger(t), nopCache{}, ownership.Filter{})
	p := NewPuller(zaptest.NewLogger(t), chain, handler, 2, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, 5) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("puller did not stop on cancellation")
	}
}
