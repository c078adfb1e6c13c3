package types

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/suiwatch/suix/pkg/utils"
)

// Uint64 decodes Sui JSON u64 fields, which arrive either as JSON
// strings ("12345") or as plain numbers depending on the RPC version.
// Out-of-range values are a decode error, never truncated.
type Uint64 uint64

func (u *Uint64) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "null" {
		*u = 0
		return nil
	}
	n, err := utils.ParseUint64(s)
	if err != nil {
		return fmt.Errorf("u64 field: %w", err)
	}
	*u = Uint64(n)
	return nil
}

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(u), 10))), nil
}

// NormalizeAddress canonicalizes a Sui address or object id to its
// short form: lowercase, 0x-prefixed, leading zeros stripped. The
// full-width and short forms of the same address compare equal after
// normalization.
func NormalizeAddress(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// SystemPackageAddresses returns the protocol-owned package addresses
// that may be upgraded at epoch boundaries: the Move stdlib, the Sui
// framework, the Sui system package and DeepBook.
func SystemPackageAddresses() []string {
	return []string{"0x1", "0x2", "0x3", "0xdee9"}
}
