package types

import (
	"encoding/json"
	"fmt"
)

// ObjectSnapshot is the full pre- or post-transaction state of an
// object as delivered inside a checkpoint: identity, declared type,
// owner and, for coin objects, the carried balance.
type ObjectSnapshot struct {
	ObjectID            string `json:"objectId"`
	Version             Uint64 `json:"version"`
	Digest              string `json:"digest"`
	Type                string `json:"type"`
	Owner               Owner  `json:"owner"`
	PreviousTransaction string `json:"previousTransaction"`

	// Balance is the coin value held by the object. Valid only when
	// the declared type is 0x2::coin::Coin<T>.
	Balance Uint64 `json:"-"`
}

type objectContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields"`
}

type coinFields struct {
	Balance Uint64 `json:"balance"`
}

type objectSnapshotJSON struct {
	ObjectID            string         `json:"objectId"`
	Version             Uint64         `json:"version"`
	Digest              string         `json:"digest"`
	Type                string         `json:"type"`
	Owner               Owner          `json:"owner"`
	PreviousTransaction string         `json:"previousTransaction"`
	Content             *objectContent `json:"content"`
}

func (o *ObjectSnapshot) UnmarshalJSON(b []byte) error {
	var w objectSnapshotJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	o.ObjectID = NormalizeAddress(w.ObjectID)
	o.Version = w.Version
	o.Digest = w.Digest
	o.Type = w.Type
	o.Owner = w.Owner
	o.PreviousTransaction = w.PreviousTransaction
	o.Balance = 0

	if o.Type == "" && w.Content != nil {
		o.Type = w.Content.Type
	}

	if _, isCoin := CoinTypeOf(o.Type); isCoin && w.Content != nil && len(w.Content.Fields) > 0 {
		var f coinFields
		if err := json.Unmarshal(w.Content.Fields, &f); err != nil {
			return fmt.Errorf("coin fields of %s: %w", o.ObjectID, err)
		}
		o.Balance = f.Balance
	}
	return nil
}

// CoinType returns the coin type parameter of the snapshot's declared
// type, false when the object is not a coin.
func (o *ObjectSnapshot) CoinType() (string, bool) {
	return CoinTypeOf(o.Type)
}

// IsCoin reports whether the snapshot holds a 0x2::coin::Coin.
func (o *ObjectSnapshot) IsCoin() bool {
	_, ok := o.CoinType()
	return ok
}
