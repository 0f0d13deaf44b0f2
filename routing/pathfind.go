package routing

import (
	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/lnwire"
	"github.com/lightningnetwork/lnsim/routing/route"
)

// minInteriorFeeMSat is the floor applied to interior-hop fees; first
// and last hops carry no fee at all.
const minInteriorFeeMSat = 1000

// QueryRouteYen finds up to numRoutes loop-free paths from src to dst for
// paymentAmount satoshis using Yen's K-shortest-paths, and builds a
// route.Payment from the best one plus its alternates.
//
// On failure (endpoints missing, or no path), it returns a Payment with
// Routes == nil and Error populated.
func QueryRouteYen(g *graph.Graph, src, dst string, paymentAmount int64, numRoutes int) *route.Payment {
	if _, err := g.Node(src); err != nil {
		return &route.Payment{
			PubKeyOrigin: src, PubKeyDestiny: dst,
			PaymentAmount: paymentAmount,
			Error:         "Nodes not found",
		}
	}
	if _, err := g.Node(dst); err != nil {
		return &route.Payment{
			PubKeyOrigin: src, PubKeyDestiny: dst,
			PaymentAmount: paymentAmount,
			Error:         "Nodes not found",
		}
	}

	amtMSat := paymentAmount * 1000

	paths, err := YenKShortestPaths(g, src, dst, amtMSat, numRoutes)
	if err != nil {
		return &route.Payment{
			PubKeyOrigin: src, PubKeyDestiny: dst,
			PaymentAmount: paymentAmount,
			Error:         "UNABLE TO FIND A PATH",
		}
	}

	log.Debugf("Yen search %s -> %s produced %d candidate paths",
		src, dst, len(paths))

	payment := &route.Payment{
		PubKeyOrigin:  src,
		PubKeyDestiny: dst,
		PaymentAmount: paymentAmount,
	}

	for _, nodes := range paths {
		r, err := buildRoute(g, nodes, amtMSat)
		if err != nil {
			continue
		}
		payment.Routes = append(payment.Routes, r)
	}

	if len(payment.Routes) == 0 {
		payment.Error = "UNABLE TO FIND A PATH"
	}

	return payment
}

// buildRoute walks a node sequence and constructs its Route, applying
// the first/last-hop-fee-free rule and the interior fee floor.
func buildRoute(g *graph.Graph, nodes []string, amtMSat int64) (*route.Route, error) {
	hops := make([]*route.Hop, 0, len(nodes)-1)

	for i := 0; i < len(nodes)-1; i++ {
		u, v := nodes[i], nodes[i+1]

		choice, ok := edgeWeight(g, u, v, amtMSat)
		if !ok {
			return nil, ErrNoPath
		}

		c, err := g.Channel(choice.channelID)
		if err != nil {
			return nil, err
		}

		isFirst := i == 0
		isLast := i == len(nodes)-2

		var feeMSat int64
		if isFirst || isLast {
			feeMSat = 0
		} else {
			computed := int64(bestPolicyFee(c, choice.directed, amtMSat))
			if computed < minInteriorFeeMSat {
				computed = minInteriorFeeMSat
			}
			feeMSat = computed
		}

		expiry := bestPolicyExpiry(c, choice.directed, amtMSat)

		hops = append(hops, &route.Hop{
			ChannelID:        choice.channelID,
			ChannelCapacity:  c.Capacity,
			PubKey:           v,
			SrcPubKey:        u,
			AmtToForward:     amtMSat / 1000,
			AmtToForwardMSat: lnwire.MilliSatoshi(amtMSat),
			Fee:              feeMSat / 1000,
			FeeMSat:          lnwire.MilliSatoshi(feeMSat),
			Expiry:           expiry,
		})
	}

	r := &route.Route{Hops: hops}
	finalizeRouteTotals(r, amtMSat, len(nodes))
	return r, nil
}

// CompleteRouteTotals fills in the aggregate totals of externally
// produced routes (live connectors) whose producer left them unset. The
// hop lists themselves are accepted verbatim.
func CompleteRouteTotals(p *route.Payment) {
	for _, r := range p.Routes {
		if r.TotalAmtMSat != 0 || len(r.Hops) == 0 {
			continue
		}
		finalizeRouteTotals(r, p.PaymentAmount*1000, len(r.Hops)+1)
	}
}

// bestPolicyFee returns the fee_base_msat of whichever policy side
// qualified for this directed edge (mirrors bestPolicyCost's selection).
func bestPolicyFee(c *graph.ChannelEdge, d *graph.DirectedChannel, amtMSat int64) uint64 {
	srcOK := qualifies(c.PolicySource, d, amtMSat)
	dstOK := qualifies(c.PolicyDest, d, amtMSat)

	switch {
	case srcOK && dstOK:
		if lexicalLessOrEqual(c.PolicySource, c.PolicyDest) {
			return c.PolicySource.FeeBaseMSat
		}
		return c.PolicyDest.FeeBaseMSat
	case srcOK:
		return c.PolicySource.FeeBaseMSat
	default:
		return c.PolicyDest.FeeBaseMSat
	}
}

// bestPolicyExpiry returns the time_lock_delta of whichever policy side
// qualified for this directed edge.
func bestPolicyExpiry(c *graph.ChannelEdge, d *graph.DirectedChannel, amtMSat int64) uint16 {
	srcOK := qualifies(c.PolicySource, d, amtMSat)
	dstOK := qualifies(c.PolicyDest, d, amtMSat)

	switch {
	case srcOK && dstOK:
		if lexicalLessOrEqual(c.PolicySource, c.PolicyDest) {
			return c.PolicySource.TimeLockDelta
		}
		return c.PolicyDest.TimeLockDelta
	case srcOK:
		return c.PolicySource.TimeLockDelta
	default:
		return c.PolicyDest.TimeLockDelta
	}
}

// finalizeRouteTotals computes the Route-level aggregates: total amount
// (including accumulated fees), total fees, total time lock, and a
// success probability of 1/|path nodes|.
func finalizeRouteTotals(r *route.Route, amtMSat int64, numNodes int) {
	var totalFeesMSat int64
	var totalTimeLock uint32
	for _, h := range r.Hops {
		totalFeesMSat += int64(h.FeeMSat)
		totalTimeLock += uint32(h.Expiry)
	}

	r.TotalAmtMSat = lnwire.MilliSatoshi(amtMSat + totalFeesMSat)
	r.TotalAmt = (amtMSat + totalFeesMSat) / 1000
	r.TotalFeesMSat = lnwire.MilliSatoshi(totalFeesMSat)
	r.TotalFees = totalFeesMSat / 1000
	r.TotalTimeLock = totalTimeLock
	if numNodes > 0 {
		r.SuccessProb = 1.0 / float64(numNodes)
	}
}
