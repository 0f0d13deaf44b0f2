package graph

import "fmt"

// CheckInvariants asserts the structural invariants of the dual graph:
//  1. |G1.nodes| = |G2.nodes| (G1 and G2 share one node set, so this
//     holds by construction and is not checked separately).
//  2. 2*|G1.edges| = |G2.edges|.
//  3. per-channel capacity conservation.
//  4. every outgoing (direction 0) pending_htlc[i] has a matching htlc[i].
//  5. HTLC indices strictly increasing, never reused.
//
// Returns ErrInvariantViolation wrapping a description of the first
// violation found.
func (g *Graph) CheckInvariants() error {
	if 2*len(g.channels) != len(g.directed) {
		return fmt.Errorf("%w: 2*|G1.edges|=%d != |G2.edges|=%d",
			ErrInvariantViolation, 2*len(g.channels), len(g.directed))
	}

	for _, c := range g.channels {
		fwdKey := c.ChannelID + "-" + c.Node1Pub
		revKey := c.ChannelID + "-" + c.Node2Pub

		fwd, ok := g.directed[fwdKey]
		if !ok {
			return fmt.Errorf("%w: missing directed edge %s",
				ErrInvariantViolation, fwdKey)
		}
		rev, ok := g.directed[revKey]
		if !ok {
			return fmt.Errorf("%w: missing directed edge %s",
				ErrInvariantViolation, revKey)
		}

		capacityMSat := c.Capacity * 1000
		sum := fwd.Balance + fwd.PendingSum() + rev.Balance + rev.PendingSum()
		if sum != capacityMSat {
			return fmt.Errorf("%w: channel %s balance+pending sum=%d != capacity=%d",
				ErrInvariantViolation, c.ChannelID, sum, capacityMSat)
		}

		for _, d := range []*DirectedChannel{fwd, rev} {
			if err := checkDirectedInvariants(d); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkDirectedInvariants(d *DirectedChannel) error {
	for idx, entry := range d.PendingHTLC {
		if idx >= d.NextHTLCIndex {
			return fmt.Errorf("%w: edge %s pending_htlc[%d] beyond allocation watermark %d",
				ErrInvariantViolation, d.Key, idx, d.NextHTLCIndex)
		}

		// Only outgoing reservations carry a full HTLC record; the
		// credit-pending entries appended at settle time are
		// bookkeeping-only, matching the source's accounting.
		if entry.Direction != 0 {
			continue
		}
		if _, ok := d.HTLCs[idx]; !ok {
			return fmt.Errorf("%w: edge %s pending_htlc[%d] has no matching htlc entry",
				ErrInvariantViolation, d.Key, idx)
		}
	}
	return nil
}
