package graph

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Node is a participant in the payment channel network, identified by its
// long-term public key. Nodes are created at load time and are immutable
// thereafter; only the channels attached to them carry mutable state.
type Node struct {
	// PubKey is the node's long-term identity public key.
	PubKey *btcec.PublicKey

	// PubKeyStr is the hex-encoded serialized compressed public key,
	// used as the canonical map key throughout the graph package.
	PubKeyStr string

	// Alias is a nick-name for the node. Defaults to
	// pubkey[:4]+".."+pubkey[-4:] when absent from the snapshot.
	Alias string

	// LastUpdate is the last time this node's announcement was seen.
	LastUpdate time.Time

	// Addresses holds opaque network address strings as provided by the
	// snapshot; no connectivity is implied or exercised by the
	// simulator core.
	Addresses []string

	// Color is the node's chosen display color, as a "#rrggbb" string.
	Color string

	// Features holds opaque feature-bit names as provided by the
	// snapshot.
	Features []string
}

// defaultAlias derives the conservative alias fallback used when a
// snapshot node omits one: the first four and last four hex characters
// of the public key, separated by "..".
func defaultAlias(pubKeyStr string) string {
	if len(pubKeyStr) <= 8 {
		return pubKeyStr
	}
	return fmt.Sprintf("%s..%s", pubKeyStr[:4], pubKeyStr[len(pubKeyStr)-4:])
}

// RoutingPolicy carries the fee schedule and constraints published by one
// endpoint of a channel for forwarding in a given direction.
type RoutingPolicy struct {
	TimeLockDelta    uint16
	MinHTLC          uint64 // millisatoshi
	FeeBaseMSat      uint64
	FeeRateMilliMSat uint64
	MaxHTLCMSat      uint64
	Disabled         bool
	LastUpdate       time.Time
}

// defaultPolicy returns the conservative policy normalization applied when
// a channel side omits a policy entirely: disabled defaults to true.
func defaultPolicy() RoutingPolicy {
	return RoutingPolicy{Disabled: true}
}
