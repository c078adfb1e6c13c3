package types

import (
	"encoding/json"
	"fmt"
)

// Owner classification labels as they appear in ownership records.
const (
	OwnerAddress   = "AddressOwner"
	OwnerObject    = "ObjectOwner"
	OwnerShared    = "Shared"
	OwnerImmutable = "Immutable"
)

// SharedOwner carries the consensus metadata of a shared object.
type SharedOwner struct {
	InitialSharedVersion Uint64 `json:"initial_shared_version"`
}

// Owner is the effective controlling entity of an object. Exactly one
// of the four forms is set.
type Owner struct {
	AddressOwner string
	ObjectOwner  string
	Shared       *SharedOwner
	Immutable    bool
}

// ownerJSON mirrors the Sui RPC wire forms:
//
//	{"AddressOwner": "0x.."}
//	{"ObjectOwner": "0x.."}
//	{"Shared": {"initial_shared_version": "7"}}
//	"Immutable"
type ownerJSON struct {
	AddressOwner *string      `json:"AddressOwner"`
	ObjectOwner  *string      `json:"ObjectOwner"`
	Shared       *SharedOwner `json:"Shared"`
}

func (o *Owner) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != OwnerImmutable {
			return fmt.Errorf("unknown owner form %q", s)
		}
		*o = Owner{Immutable: true}
		return nil
	}

	var w ownerJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch {
	case w.AddressOwner != nil:
		*o = Owner{AddressOwner: NormalizeAddress(*w.AddressOwner)}
	case w.ObjectOwner != nil:
		*o = Owner{ObjectOwner: NormalizeAddress(*w.ObjectOwner)}
	case w.Shared != nil:
		*o = Owner{Shared: w.Shared}
	default:
		return fmt.Errorf("unknown owner form %s", string(b))
	}
	return nil
}

func (o Owner) MarshalJSON() ([]byte, error) {
	switch {
	case o.Immutable:
		return json.Marshal(OwnerImmutable)
	case o.Shared != nil:
		return json.Marshal(ownerJSON{Shared: o.Shared})
	case o.ObjectOwner != "":
		return json.Marshal(ownerJSON{ObjectOwner: &o.ObjectOwner})
	default:
		return json.Marshal(ownerJSON{AddressOwner: &o.AddressOwner})
	}
}

// Kind returns the owner classification label.
func (o Owner) Kind() string {
	switch {
	case o.Immutable:
		return OwnerImmutable
	case o.Shared != nil:
		return OwnerShared
	case o.ObjectOwner != "":
		return OwnerObject
	case o.AddressOwner != "":
		return OwnerAddress
	}
	return ""
}

// Address returns the owning address, empty for shared and immutable
// objects.
func (o Owner) Address() string {
	if o.ObjectOwner != "" {
		return o.ObjectOwner
	}
	return o.AddressOwner
}
