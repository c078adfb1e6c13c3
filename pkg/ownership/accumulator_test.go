package ownership

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiwatch/suix/pkg/db/models/analytics"
)

func entry(id string) *analytics.OwnershipEntry {
	return &analytics.OwnershipEntry{ObjectID: id}
}

func TestAccumulatorDrainIsIdempotent(t *testing.T) {
	acc := NewAccumulator()
	acc.Append(entry("a"), entry("b"))

	first := acc.Drain()
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].ObjectID)
	assert.Equal(t, "b", first[1].ObjectID)

	assert.Nil(t, acc.Drain(), "a second drain without appends returns nothing")
	assert.Zero(t, acc.Len())
}

func TestAccumulatorRequeuePreservesOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.Append(entry("a"), entry("b"))

	drained := acc.Drain()
	acc.Append(entry("c"))
	acc.Requeue(drained)

	out := acc.Drain()
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ObjectID)
	assert.Equal(t, "b", out[1].ObjectID)
	assert.Equal(t, "c", out[2].ObjectID, "requeued entries land ahead of later appends")
}

func TestAccumulatorConcurrentAppend(t *testing.T) {
	acc := NewAccumulator()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				acc.Append(entry(fmt.Sprintf("%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1600, acc.Len())
	assert.Len(t, acc.Drain(), 1600)
}
