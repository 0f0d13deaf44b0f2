package graph

import "time"

// ChannelEdge is the undirected, topology-and-policy representation of a
// payment channel within G1. Capacity is expressed in satoshis, matching
// the snapshot's on-chain funding amount.
type ChannelEdge struct {
	ChannelID  string
	ChanPoint  string
	LastUpdate time.Time
	Capacity   int64

	Node1Pub string
	Node2Pub string

	// PolicySource is the policy published by Node1, PolicyDest the one
	// published by Node2.
	PolicySource RoutingPolicy
	PolicyDest   RoutingPolicy
}

// HTLCStatus enumerates the lifecycle states of a simulated HTLC. Entries
// are never removed once created; only the status transitions.
type HTLCStatus int

const (
	HTLCStatusInFlight HTLCStatus = iota
	HTLCStatusSucceeded
	HTLCStatusFailed
)

func (s HTLCStatus) String() string {
	switch s {
	case HTLCStatusInFlight:
		return "IN_FLIGHT"
	case HTLCStatusSucceeded:
		return "SUCCEEDED"
	case HTLCStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// FailureReason enumerates why an HTLC did not succeed.
type FailureReason int

const (
	FailureReasonNone FailureReason = iota
	FailureReasonTimeout
	FailureReasonNoRoute
)

func (r FailureReason) String() string {
	switch r {
	case FailureReasonNone:
		return "FAILURE_REASON_NONE"
	case FailureReasonTimeout:
		return "FAILURE_REASON_TIMEOUT"
	case FailureReasonNoRoute:
		return "FAILURE_REASON_NO_ROUTE"
	default:
		return "FAILURE_REASON_UNKNOWN"
	}
}

// HTLCPayment binds an HTLC record to the hop of the Route that produced
// it, plus attempt/resolution bookkeeping.
type HTLCPayment struct {
	Status        HTLCStatus
	HopChannelID  string
	HopPubKey     string
	AttemptTimeNs int64
	ResolveTimeNs int64
	FailureCode   *FailureReason
}

// HTLC is the full record of one hash time-locked contract traversing a
// directed edge.
type HTLC struct {
	Preimage         [32]byte
	PaymentHash      [32]byte
	Status           HTLCStatus
	FailureReason    FailureReason
	TimeLockDelta    uint16
	FeeBaseMSat      uint64
	FeeRateMilliMSat uint64
	HTLCPayment      HTLCPayment
}

// PendingHTLC is the lock-level view of an in-flight HTLC on a directed
// edge: incoming/outgoing, amount, hash lock, and CLTV expiration height.
type PendingHTLC struct {
	Incoming         bool
	Amount           uint64 // millisatoshi
	HashLock         [32]byte
	ExpirationHeight uint32
}

// PendingEntry is the ordered (amount, direction_flag) mapping entry: 0
// for an outgoing reservation, 1 for an incoming credit-pending entry.
type PendingEntry struct {
	Amount    int64 // may be negative for credit entries; millisatoshi
	Direction int   // 0 = outgoing reservation, 1 = incoming credit
}

// DirectedChannel is one of the two directed sides of a G1 channel within
// G2, keyed by "{channel_id}-{src_pub}".
type DirectedChannel struct {
	Key       string
	ChannelID string
	SrcPub    string
	DstPub    string

	Balance  int64 // millisatoshi, spendable src->dst
	Capacity int64 // millisatoshi, mirrors G1 capacity, tracked per-side

	// NextHTLCIndex is the next free index to allocate; indices are
	// monotonically increasing and never reused.
	NextHTLCIndex uint64

	PendingHTLC    map[uint64]PendingEntry
	HTLCs          map[uint64]*HTLC
	ValPendingHTLC map[uint64]PendingHTLC
}

// newDirectedChannel constructs an empty directed edge for one side of a
// channel.
func newDirectedChannel(channelID, src, dst string, capacityMSat int64) *DirectedChannel {
	return &DirectedChannel{
		Key:            channelID + "-" + src,
		ChannelID:      channelID,
		SrcPub:         src,
		DstPub:         dst,
		Capacity:       capacityMSat,
		PendingHTLC:    make(map[uint64]PendingEntry),
		HTLCs:          make(map[uint64]*HTLC),
		ValPendingHTLC: make(map[uint64]PendingHTLC),
	}
}

// PendingSum returns the sum of all pending HTLC amounts on this directed
// edge, used by the capacity-invariant check.
func (d *DirectedChannel) PendingSum() int64 {
	var sum int64
	for _, p := range d.PendingHTLC {
		sum += p.Amount
	}
	return sum
}
