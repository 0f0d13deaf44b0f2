package graph

import "github.com/go-errors/errors"

var (
	// ErrNodeNotFound is returned when a lookup by public key misses G1.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrChannelNotFound is returned when a lookup by channel_id misses
	// G1.
	ErrChannelNotFound = errors.New("graph: channel not found")

	// ErrDirectedEdgeNotFound is returned when a composite G2 key has
	// no corresponding directed edge.
	ErrDirectedEdgeNotFound = errors.New("graph: directed edge not found")

	// ErrInvariantViolation is returned by CheckInvariants when the
	// capacity-conservation or index-monotonicity invariants no longer
	// hold. The orchestrator treats this as fatal.
	ErrInvariantViolation = errors.New("graph: invariant violation")
)
