package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/suiwatch/suix/pkg/types"
)

// packageObjectResponse mirrors the sui_getObject wire shape for a
// published package, keeping only the fields type canonicalization
// needs.
type packageObjectResponse struct {
	Data *struct {
		ObjectID string       `json:"objectId"`
		Version  types.Uint64 `json:"version"`
		Content  *struct {
			DataType        string             `json:"dataType"`
			Disassembled    json.RawMessage    `json:"disassembled"`
			TypeOriginTable []types.TypeOrigin `json:"typeOriginTable"`
		} `json:"content"`
	} `json:"data"`
}

// PackageObject fetches the on-chain metadata of a published package.
// A missing or non-package object is a hard error; the caller treats
// it as a metadata-resolution failure for the whole checkpoint.
func (c *HTTPClient) PackageObject(ctx context.Context, address string) (*types.MovePackage, error) {
	address = types.NormalizeAddress(address)
	params := []any{
		address,
		map[string]bool{"showContent": true, "showType": true},
	}

	var resp packageObjectResponse
	if err := c.call(ctx, "sui_getObject", params, &resp); err != nil {
		return nil, fmt.Errorf("package %s: %w", address, err)
	}
	if resp.Data == nil || resp.Data.Content == nil {
		return nil, fmt.Errorf("package %s: object not found", address)
	}
	if resp.Data.Content.DataType != "package" {
		return nil, fmt.Errorf("package %s: object is %q, not a package", address, resp.Data.Content.DataType)
	}

	var modules []string
	if len(resp.Data.Content.Disassembled) > 0 {
		var byName map[string]json.RawMessage
		if err := json.Unmarshal(resp.Data.Content.Disassembled, &byName); err == nil {
			for name := range byName {
				modules = append(modules, name)
			}
		}
	}

	return &types.MovePackage{
		Address:     types.NormalizeAddress(resp.Data.ObjectID),
		Version:     resp.Data.Version,
		Modules:     modules,
		TypeOrigins: resp.Data.Content.TypeOriginTable,
	}, nil
}
