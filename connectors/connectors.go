// Package connectors declares the interfaces that an external live node
// connector (LND gRPC, c-lightning RPC, eclair REST) would implement.
// No concrete connector ships with the simulator; the orchestrator's
// live-query branch type-checks against LNConnector even though nothing
// currently satisfies it outside of test fakes.
package connectors

import "github.com/lightningnetwork/lnsim/routing/route"

// NodeInfo is the opaque connection info a live connector reports about
// itself, mirroring get_info style RPCs.
type NodeInfo struct {
	Alias  string
	PubKey string
}

// LNConnector is implemented by a live node connector grounded on
// original_source/ln/connector/*.py's per-implementation shims
// (LND/eclair/c-lightning).
type LNConnector interface {
	// GetInfo returns the connected node's identity.
	GetInfo() (*NodeInfo, error)

	// QueryRoute asks the live implementation to compute a route for a
	// payment, returning its own Payment/Route shape.
	QueryRoute(origin, destiny string, amountSat int64) (*route.Payment, error)

	// SendPayment instructs the live implementation to dispatch a
	// payment along a previously queried route.
	SendPayment(p *route.Payment) error
}
