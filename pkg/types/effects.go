package types

import "encoding/json"

// ObjectRef identifies an object at a specific version.
type ObjectRef struct {
	ObjectID string `json:"objectId"`
	Version  Uint64 `json:"version"`
	Digest   string `json:"digest"`
}

func (r *ObjectRef) UnmarshalJSON(b []byte) error {
	type alias ObjectRef
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	a.ObjectID = NormalizeAddress(a.ObjectID)
	*r = ObjectRef(a)
	return nil
}

// OwnedObjectRef is an object reference stamped with its
// post-transaction owner, as reported in effects.
type OwnedObjectRef struct {
	Owner     Owner     `json:"owner"`
	Reference ObjectRef `json:"reference"`
}

// TransactionEffects declares what a transaction did to every object
// it touched. Every output object appears in exactly one of these
// sets.
type TransactionEffects struct {
	Created   []OwnedObjectRef `json:"created"`
	Mutated   []OwnedObjectRef `json:"mutated"`
	Unwrapped []OwnedObjectRef `json:"unwrapped"`
	Deleted   []ObjectRef      `json:"deleted"`
	Wrapped   []ObjectRef      `json:"wrapped"`
}

// AllRemoved returns the refs of objects the transaction removed from
// the live object set, deleted first, then wrapped.
func (e *TransactionEffects) AllRemoved() []ObjectRef {
	out := make([]ObjectRef, 0, len(e.Deleted)+len(e.Wrapped))
	out = append(out, e.Deleted...)
	out = append(out, e.Wrapped...)
	return out
}
