// Package route holds the shared Hop/Route/Payment types consumed by both
// the routing engine and the htlcswitch HTLC state machine.
package route

import "github.com/lightningnetwork/lnsim/lnwire"

// Hop describes traversal of a single directed edge within a Route.
type Hop struct {
	ChannelID        string
	ChannelCapacity  int64
	PubKey           string // destination of this hop
	AmtToForward     int64
	AmtToForwardMSat lnwire.MilliSatoshi
	Fee              int64
	FeeMSat          lnwire.MilliSatoshi
	Expiry           uint16
	TLVPayload       bool

	// SrcPubKey is the node the hop is forwarded *from*; it names the
	// G2 directed-edge key ("{ChannelID}-{SrcPubKey}") this hop
	// reserves against. Not part of the wire-facing Hop shape, but
	// needed internally to locate the directed edge without
	// re-deriving it from route order.
	SrcPubKey string
}

// Route is an ordered sequence of hops plus payment-level aggregates.
type Route struct {
	Hops []*Hop

	TotalAmt      int64
	TotalAmtMSat  lnwire.MilliSatoshi
	TotalFees     int64
	TotalFeesMSat lnwire.MilliSatoshi
	TotalTimeLock uint32
	SuccessProb   float64
}

// Payment is the top-level routing result: the requested transfer plus
// any routes the engine (or an external connector) produced.
type Payment struct {
	PubKeyOrigin  string
	PubKeyDestiny string
	PaymentAmount int64

	Routes []*Route

	CreationTimeNs int64
	PaymentHash    [32]byte
	HasHash        bool

	Error string
}

// Failed reports whether the payment has no usable route.
func (p *Payment) Failed() bool {
	return len(p.Routes) == 0
}
