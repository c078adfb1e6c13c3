package rpc

import (
	"context"

	"github.com/suiwatch/suix/pkg/types"
)

// Client captures the fullnode calls the ingestion pipeline depends
// on: ordered checkpoint delivery with full object snapshots, and
// package metadata for type canonicalization.
type Client interface {
	LatestCheckpointSequenceNumber(ctx context.Context) (uint64, error)
	CheckpointData(ctx context.Context, sequence uint64) (*types.CheckpointData, error)
	PackageObject(ctx context.Context, address string) (*types.MovePackage, error)
}

// Factory produces RPC clients for a given set of endpoints.
type Factory interface {
	NewClient(endpoints []string) Client
}

type httpFactory struct {
	opts Opts
}

// NewHTTPFactory returns a factory that builds HTTP clients with shared defaults.
func NewHTTPFactory(opts Opts) Factory {
	return &httpFactory{opts: opts}
}

func (f *httpFactory) NewClient(endpoints []string) Client {
	o := f.opts
	o.Endpoints = endpoints
	return NewHTTPWithOpts(o)
}
