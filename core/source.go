package core

import (
	"context"
	"fmt"
	"net/url"
)

// Source bundles everything a collector needs to reach the chain: the
// Fetcher facade, the resolved chain ID, and the RPC endpoint's advertised
// capabilities (spec.md §4.3). Built once per run and treated as read-only
// afterward — no field is ever mutated after NewSource returns.
type Source struct {
	Fetcher          Fetcher
	ChainID          uint64
	RPCURL           string
	NetworkName      string // display name used in output file names; resolved from chain_id if not overridden
	SupportsTrace    bool   // node exposes the trace_* namespace (OpenEthereum/Erigon/Reth style)
	InnerRequestSize int    // max blocks spanned by one eth_getLogs call; 0 means unbounded (spec.md §4.3, --log-request-size)
}

// SourceOptions configures NewSource.
type SourceOptions struct {
	MaxRequestsPerSecond  float64
	MaxConcurrentRequests int64
	InnerRequestSize      int
	SupportsTrace         bool
	NetworkName           string // empty means derive from chain_id (see NetworkNameForChainID)
}

// NewSource dials rpcURL, resolves the chain ID, and returns a read-only
// Source ready to hand to collectors.
func NewSource(ctx context.Context, rpcURL string, opts SourceOptions) (*Source, error) {
	fetcher, err := NewFetcher(ctx, rpcURL, opts.MaxRequestsPerSecond, opts.MaxConcurrentRequests)
	if err != nil {
		return nil, err
	}
	chainID, err := fetcher.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	name := opts.NetworkName
	if name == "" {
		name = NetworkNameForChainID(chainID)
	}
	return &Source{
		Fetcher:          fetcher,
		ChainID:          chainID,
		RPCURL:           rpcURL,
		NetworkName:      name,
		SupportsTrace:    opts.SupportsTrace,
		InnerRequestSize: opts.InnerRequestSize,
	}, nil
}

// RedactRPCURL strips userinfo (basic-auth credentials embedded in the URL)
// before the RPC endpoint is written into a run report (spec.md §4.7:
// "redacted rpc url").
func RedactRPCURL(rpcURL string) string {
	u, err := url.Parse(rpcURL)
	if err != nil || u.User == nil {
		return rpcURL
	}
	u.User = nil
	return u.String()
}

// NetworkNameForChainID derives a display name for a chain ID lacking an
// explicit --network-name override (spec.md §6: "1 → ethereum, else
// network_<id>").
func NetworkNameForChainID(chainID uint64) string {
	if chainID == 1 {
		return "ethereum"
	}
	return fmt.Sprintf("network_%d", chainID)
}
