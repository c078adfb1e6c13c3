package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrRange reports an on-chain numeric value that does not fit the
// record's integer field. Narrowing failures abort the enclosing
// checkpoint rather than truncate silently.
var ErrRange = errors.New("value out of range")

// ParseUint64 parses a decimal string into a uint64. Sui JSON-RPC
// encodes u64 fields (versions, balances, timestamps) as strings.
func ParseUint64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, ErrRange)
	}
	return n, nil
}

func Dedup(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range in {
		e = strings.TrimRight(e, "/")
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
