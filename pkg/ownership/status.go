package ownership

import (
	"errors"
	"fmt"

	"github.com/suiwatch/suix/pkg/db/models/analytics"
	"github.com/suiwatch/suix/pkg/types"
)

// ErrStatusNotFound reports an object that appears in a transaction's
// object snapshots but in none of its effect sets. The two are
// produced together by the chain, so a mismatch is an invariant
// violation and aborts the transaction.
var ErrStatusNotFound = errors.New("object not present in transaction effects")

// StatusTracker classifies the disposition of every object a
// transaction touched, independent of ownership. It is a pure lookup
// over the effect sets, rebuilt per transaction.
type StatusTracker struct {
	statuses map[string]string
}

// NewStatusTracker indexes the transaction's effect sets by object id.
func NewStatusTracker(effects *types.TransactionEffects) *StatusTracker {
	t := &StatusTracker{statuses: make(map[string]string)}
	for _, r := range effects.Created {
		t.statuses[r.Reference.ObjectID] = analytics.StatusCreated
	}
	for _, r := range effects.Mutated {
		t.statuses[r.Reference.ObjectID] = analytics.StatusMutated
	}
	for _, r := range effects.Unwrapped {
		t.statuses[r.Reference.ObjectID] = analytics.StatusUnwrapped
	}
	for _, r := range effects.Deleted {
		t.statuses[r.ObjectID] = analytics.StatusDeleted
	}
	for _, r := range effects.Wrapped {
		t.statuses[r.ObjectID] = analytics.StatusWrapped
	}
	return t
}

// Status returns the status label for the given object id, or
// ErrStatusNotFound when the id appears in no effect set.
func (t *StatusTracker) Status(objectID string) (string, error) {
	s, ok := t.statuses[types.NormalizeAddress(objectID)]
	if !ok {
		return "", fmt.Errorf("object %s: %w", objectID, ErrStatusNotFound)
	}
	return s, nil
}
