package ownership

import (
	"context"
	"fmt"

	"github.com/suiwatch/suix/pkg/db/models/analytics"
	"github.com/suiwatch/suix/pkg/types"
)

// Resolver returns the canonical declared type of an object,
// implemented by the package metadata cache.
type Resolver interface {
	Resolve(ctx context.Context, obj *types.ObjectSnapshot) (string, error)
}

// Builder reconciles one transaction's input snapshots, output
// snapshots and effects into ownership transition records for objects
// matching the tracked-type filter.
type Builder struct {
	resolver Resolver
	filter   Filter
}

func NewBuilder(resolver Resolver, filter Filter) *Builder {
	return &Builder{resolver: resolver, filter: filter}
}

// beforeState is the pre-transaction snapshot of a tracked object,
// captured from the transaction's input objects.
type beforeState struct {
	version      uint64
	ownerType    *string
	ownerAddress *string
	objectType   *string
	coinType     *string
	balance      uint64
}

// ProcessTransaction derives the ordered list of ownership entries
// for one transaction. Output-derived entries come first in output
// order, then one Deleted entry per removed object that had an
// in-window before-state. Any error aborts the transaction and, at
// the caller, the whole checkpoint.
func (b *Builder) ProcessTransaction(ctx context.Context, summary *types.CheckpointSummary, tx *types.CheckpointTransaction) ([]*analytics.OwnershipEntry, error) {
	before := make(map[string]*beforeState, len(tx.InputObjects))
	for _, obj := range tx.InputObjects {
		resolved, err := b.resolver.Resolve(ctx, obj)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", obj.ObjectID, err)
		}
		if !b.filter.Matches(resolved) {
			continue
		}
		before[obj.ObjectID] = &beforeState{
			version:      uint64(obj.Version),
			ownerType:    optional(obj.Owner.Kind()),
			ownerAddress: optional(obj.Owner.Address()),
			objectType:   optional(resolved),
			coinType:     coinTypeOf(resolved),
			balance:      uint64(obj.Balance),
		}
	}

	tracker := NewStatusTracker(&tx.Effects)
	var entries []*analytics.OwnershipEntry

	for _, obj := range tx.OutputObjects {
		resolved, err := b.resolver.Resolve(ctx, obj)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", obj.ObjectID, err)
		}
		if !b.filter.Matches(resolved) {
			continue
		}

		coinType := coinTypeOf(resolved)
		balance := uint64(obj.Balance)
		if coinType == nil {
			balance = 0
		}

		base := analytics.OwnershipEntry{
			ObjectID:            obj.ObjectID,
			Version:             uint64(obj.Version),
			Checkpoint:          uint64(summary.SequenceNumber),
			Epoch:               uint64(summary.Epoch),
			TimestampMs:         uint64(summary.TimestampMs),
			OwnerType:           optional(obj.Owner.Kind()),
			OwnerAddress:        optional(obj.Owner.Address()),
			PreviousTransaction: obj.PreviousTransaction,
			CoinType:            coinType,
			CoinBalance:         balance,
		}

		prev, seen := before[obj.ObjectID]
		switch {
		case !seen:
			// New object in this window, expected Created or Unwrapped.
			status, serr := tracker.Status(obj.ObjectID)
			if serr != nil {
				return nil, serr
			}
			entry := base
			entry.ObjectStatus = status
			entries = append(entries, &entry)

		case strEqual(prev.ownerAddress, base.OwnerAddress):
			// Same owner, expected Mutated. The before block is
			// carried for provenance parity with the transfer paths.
			status, serr := tracker.Status(obj.ObjectID)
			if serr != nil {
				return nil, serr
			}
			entry := base
			entry.ObjectStatus = status
			withBefore(&entry, uint64(summary.SequenceNumber), prev)
			entries = append(entries, &entry)

		default:
			// Ownership changed: one entry closing the old owner's
			// position at zero balance, one opening the new owner's.
			out := base
			out.ObjectStatus = analytics.StatusTransferOut
			out.OwnerType = prev.ownerType
			out.OwnerAddress = prev.ownerAddress
			out.CoinBalance = 0
			withBefore(&out, uint64(summary.SequenceNumber), prev)
			entries = append(entries, &out)

			in := base
			in.ObjectStatus = analytics.StatusTransferIn
			withBefore(&in, uint64(summary.SequenceNumber), prev)
			entries = append(entries, &in)
		}
	}

	for _, ref := range tx.Effects.AllRemoved() {
		prev, seen := before[ref.ObjectID]
		if !seen {
			continue
		}
		// Version comes from the removal ref, the before-state may be
		// stale. The producing transaction is this one, not the
		// object's last modifier.
		entries = append(entries, &analytics.OwnershipEntry{
			ObjectID:            ref.ObjectID,
			Version:             uint64(ref.Version),
			Checkpoint:          uint64(summary.SequenceNumber),
			Epoch:               uint64(summary.Epoch),
			TimestampMs:         uint64(summary.TimestampMs),
			OwnerType:           prev.ownerType,
			OwnerAddress:        prev.ownerAddress,
			ObjectStatus:        analytics.StatusDeleted,
			PreviousTransaction: tx.Digest,
			CoinType:            prev.coinType,
			CoinBalance:         0,
		})
	}

	return entries, nil
}

// withBefore copies the before-state block onto an entry.
func withBefore(e *analytics.OwnershipEntry, checkpoint uint64, prev *beforeState) {
	version := prev.version
	e.PreviousOwner = prev.ownerAddress
	e.PreviousVersion = &version
	e.PreviousCheckpoint = &checkpoint
	e.PreviousCoinType = prev.coinType
	e.PreviousType = prev.objectType
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func coinTypeOf(resolvedType string) *string {
	ct, ok := types.CoinTypeOf(resolvedType)
	if !ok {
		return nil
	}
	return &ct
}

func strEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
