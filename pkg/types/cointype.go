package types

import (
	"fmt"
	"strings"
)

// SuiCoinType is the fully qualified tag of the native SUI coin.
const SuiCoinType = "0x2::sui::SUI"

// StructTag is a parsed Move type tag, e.g.
// 0x2::coin::Coin<0x2::sui::SUI>.
type StructTag struct {
	Address    string
	Module     string
	Name       string
	TypeParams []string
}

// String renders the tag back in canonical short-address form.
func (t *StructTag) String() string {
	s := t.Address + "::" + t.Module + "::" + t.Name
	if len(t.TypeParams) > 0 {
		s += "<" + strings.Join(t.TypeParams, ", ") + ">"
	}
	return s
}

// ParseStructTag parses a Move type tag string. Type parameters are
// kept as raw strings; nested generics are split at top-level commas
// only.
func ParseStructTag(s string) (*StructTag, error) {
	s = strings.TrimSpace(s)
	base := s
	var params []string
	if open := strings.Index(s, "<"); open != -1 {
		if !strings.HasSuffix(s, ">") {
			return nil, fmt.Errorf("malformed type tag %q", s)
		}
		base = s[:open]
		params = splitTopLevel(s[open+1 : len(s)-1])
	}

	parts := strings.Split(base, "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("malformed type tag %q", s)
	}

	norm := make([]string, len(params))
	for i, p := range params {
		pt, err := ParseStructTag(p)
		if err != nil {
			// Primitive type params (u64, address, ...) pass through.
			norm[i] = strings.TrimSpace(p)
			continue
		}
		norm[i] = pt.String()
	}

	return &StructTag{
		Address:    NormalizeAddress(parts[0]),
		Module:     parts[1],
		Name:       parts[2],
		TypeParams: norm,
	}, nil
}

// splitTopLevel splits a type-parameter list on commas that are not
// nested inside angle brackets.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// CoinTypeOf returns the coin type parameter T when objectType is
// 0x2::coin::Coin<T>, and false for every other type.
func CoinTypeOf(objectType string) (string, bool) {
	tag, err := ParseStructTag(objectType)
	if err != nil {
		return "", false
	}
	if tag.Address != "0x2" || tag.Module != "coin" || tag.Name != "Coin" || len(tag.TypeParams) != 1 {
		return "", false
	}
	return tag.TypeParams[0], true
}

// PackageOf returns the normalized address of the package declaring
// the given object type.
func PackageOf(objectType string) (string, error) {
	tag, err := ParseStructTag(objectType)
	if err != nil {
		return "", err
	}
	return tag.Address, nil
}
