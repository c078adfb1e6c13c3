package packages

import (
	"context"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/suiwatch/suix/pkg/types"
	"go.uber.org/zap"
)

const durableKeyPrefix = "suix:pkg:"

// Fetcher is the remote source of package metadata, implemented by
// the fullnode RPC client.
type Fetcher interface {
	PackageObject(ctx context.Context, address string) (*types.MovePackage, error)
}

// Durable is an optional second cache layer that survives restarts,
// implemented by the Redis client. A nil Durable disables the layer.
type Durable interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache resolves object types through package metadata, layered as
// in-process map -> durable store -> remote fetch. Entries are
// created lazily on first miss and dropped in bulk by Evict at epoch
// boundaries, when protocol-owned packages may have been upgraded.
type Cache struct {
	local   *xsync.Map[string, *types.MovePackage]
	durable Durable
	fetcher Fetcher
	logger  *zap.Logger
}

func New(logger *zap.Logger, fetcher Fetcher, durable Durable) *Cache {
	return &Cache{
		local:   xsync.NewMap[string, *types.MovePackage](),
		durable: durable,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Package returns the metadata of the package at the given address.
// Concurrent calls for the same address are coalesced: LoadOrCompute
// runs a single load under the key, so only one caller pays the
// remote-fetch cost. Load failures are not cached.
func (c *Cache) Package(ctx context.Context, address string) (*types.MovePackage, error) {
	address = types.NormalizeAddress(address)

	var loadErr error
	pkg, _ := c.local.LoadOrCompute(address, func() (*types.MovePackage, bool) {
		p, err := c.load(ctx, address)
		if err != nil {
			loadErr = err
			return nil, true
		}
		return p, false
	})
	if loadErr != nil {
		return nil, loadErr
	}
	if pkg == nil {
		// A concurrent loader cancelled its compute; load directly.
		p, err := c.load(ctx, address)
		if err != nil {
			return nil, err
		}
		c.local.Store(address, p)
		return p, nil
	}
	return pkg, nil
}

func (c *Cache) load(ctx context.Context, address string) (*types.MovePackage, error) {
	if c.durable != nil {
		var p types.MovePackage
		hit, err := c.durable.GetJSON(ctx, durableKeyPrefix+address, &p)
		if err != nil {
			return nil, fmt.Errorf("package cache %s: %w", address, err)
		}
		if hit {
			return &p, nil
		}
	}

	p, err := c.fetcher.PackageObject(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch package %s: %w", address, err)
	}

	if c.durable != nil {
		if err := c.durable.SetJSON(ctx, durableKeyPrefix+address, p, 0); err != nil {
			// The durable layer is an optimization; a write failure
			// must not fail the checkpoint.
			c.logger.Warn("Failed to persist package metadata",
				zap.String("package", address),
				zap.Error(err))
		}
	}
	return p, nil
}

// Resolve returns the canonical declared type of the object: every
// package address in the tag is rewritten to the defining package
// from the type-origin table, so upgraded packages resolve to the
// same type string across versions.
func (c *Cache) Resolve(ctx context.Context, obj *types.ObjectSnapshot) (string, error) {
	if obj.Type == "" {
		return "", fmt.Errorf("object %s has no declared type", obj.ObjectID)
	}
	tag, err := types.ParseStructTag(obj.Type)
	if err != nil {
		return "", fmt.Errorf("object %s: %w", obj.ObjectID, err)
	}
	canon, err := c.canonicalize(ctx, tag)
	if err != nil {
		return "", err
	}
	return canon.String(), nil
}

func (c *Cache) canonicalize(ctx context.Context, tag *types.StructTag) (*types.StructTag, error) {
	pkg, err := c.Package(ctx, tag.Address)
	if err != nil {
		return nil, err
	}

	out := &types.StructTag{
		Address: pkg.OriginOf(tag.Module, tag.Name),
		Module:  tag.Module,
		Name:    tag.Name,
	}
	for _, param := range tag.TypeParams {
		ptag, perr := types.ParseStructTag(param)
		if perr != nil {
			// Primitive type params (u64, address, ...) pass through.
			out.TypeParams = append(out.TypeParams, param)
			continue
		}
		canon, cerr := c.canonicalize(ctx, ptag)
		if cerr != nil {
			return nil, cerr
		}
		out.TypeParams = append(out.TypeParams, canon.String())
	}
	return out, nil
}

// Evict drops cached metadata for the given package addresses from
// both layers. Subsequent resolves force a fresh remote fetch. A
// durable-layer failure is returned: entries there have no TTL, so a
// skipped eviction would serve pre-upgrade metadata indefinitely, and
// the caller must fail the checkpoint and retry on re-delivery.
func (c *Cache) Evict(ctx context.Context, addresses []string) error {
	keys := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		addr = types.NormalizeAddress(addr)
		c.local.Delete(addr)
		keys = append(keys, durableKeyPrefix+addr)
	}
	if c.durable != nil {
		if err := c.durable.Del(ctx, keys...); err != nil {
			return fmt.Errorf("evict package metadata: %w", err)
		}
	}
	c.logger.Debug("Evicted package metadata", zap.Strings("packages", addresses))
	return nil
}
