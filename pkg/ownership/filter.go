package ownership

import "github.com/suiwatch/suix/pkg/types"

// Filter restricts which objects produce ownership records, by coin
// type, by declaring package, or both. The zero Filter tracks every
// object routed through the stage.
type Filter struct {
	coinType string
	pkg      string
}

// NewFilter normalizes the configured criteria. Empty strings disable
// the respective criterion.
func NewFilter(coinType, packageAddr string) Filter {
	f := Filter{}
	if coinType != "" {
		if tag, err := types.ParseStructTag(coinType); err == nil {
			f.coinType = tag.String()
		} else {
			f.coinType = coinType
		}
	}
	if packageAddr != "" {
		f.pkg = types.NormalizeAddress(packageAddr)
	}
	return f
}

// Empty reports whether no criterion is configured.
func (f Filter) Empty() bool {
	return f.coinType == "" && f.pkg == ""
}

// Matches decides whether an object with the given resolved type
// produces records. Every configured criterion must hold.
func (f Filter) Matches(resolvedType string) bool {
	if f.coinType != "" {
		ct, ok := types.CoinTypeOf(resolvedType)
		if !ok || ct != f.coinType {
			return false
		}
	}
	if f.pkg != "" {
		pkg, err := types.PackageOf(resolvedType)
		if err != nil || pkg != f.pkg {
			return false
		}
	}
	return true
}
