package routing

import (
	"math"

	"github.com/lightningnetwork/lnsim/graph"
)

// infiniteWeight marks an edge as unusable: no policy side qualified
// for the requested amount.
const infiniteWeight = math.MaxFloat64

// edgeChoice is the result of evaluating one parallel edge between u and
// v: the directed edge picked, the policy side that qualified, and the
// resulting cost.
type edgeChoice struct {
	channelID string
	directed  *graph.DirectedChannel
	cost      float64
}

// candidateEdges returns every directed G2 edge from u to v, across all
// parallel G1 channels connecting the two nodes, excluding any edge key
// present in excluded.
func candidateEdges(g *graph.Graph, u, v string, excluded map[string]bool) []*graph.DirectedChannel {
	var out []*graph.DirectedChannel
	for _, cid := range g.ChannelsOf(u) {
		key := cid + "-" + u
		if excluded[key] {
			continue
		}
		d, err := g.DirectedChannel(key)
		if err != nil || d.DstPub != v {
			continue
		}
		out = append(out, d)
	}
	return out
}

// edgeWeight is the liquidity-guarded weight function: for every
// parallel directed edge between u and v, evaluate both the channel's
// source-side and destination-side policy against the liquidity guard,
// pick the cheaper qualifying policy (source wins ties), then take the
// minimum cost across parallel edges.
func edgeWeight(g *graph.Graph, u, v string, amtMSat int64) (*edgeChoice, bool) {
	return edgeWeightExcluding(g, u, v, amtMSat, nil)
}

// edgeWeightExcluding is edgeWeight with a set of directed-edge keys
// treated as removed. Yen's spur search excludes edges through this view
// instead of mutating the live graph.
func edgeWeightExcluding(g *graph.Graph, u, v string, amtMSat int64, excluded map[string]bool) (*edgeChoice, bool) {
	var best *edgeChoice

	for _, d := range candidateEdges(g, u, v, excluded) {
		c, err := g.Channel(d.ChannelID)
		if err != nil {
			continue
		}

		cost, ok := bestPolicyCost(c, d, amtMSat)
		if !ok {
			continue
		}

		if best == nil || cost < best.cost {
			best = &edgeChoice{
				channelID: d.ChannelID,
				directed:  d,
				cost:      cost,
			}
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// bestPolicyCost evaluates the channel's source and destination policies
// against the liquidity guard for directed edge d, returning the cheaper
// qualifying cost (source policy wins lexicographic ties).
func bestPolicyCost(c *graph.ChannelEdge, d *graph.DirectedChannel, amtMSat int64) (float64, bool) {
	srcOK := qualifies(c.PolicySource, d, amtMSat)
	dstOK := qualifies(c.PolicyDest, d, amtMSat)

	switch {
	case srcOK && dstOK:
		if lexicalLessOrEqual(c.PolicySource, c.PolicyDest) {
			return policyCost(c.PolicySource), true
		}
		return policyCost(c.PolicyDest), true
	case srcOK:
		return policyCost(c.PolicySource), true
	case dstOK:
		return policyCost(c.PolicyDest), true
	default:
		return infiniteWeight, false
	}
}

func qualifies(p graph.RoutingPolicy, d *graph.DirectedChannel, amtMSat int64) bool {
	if p.Disabled {
		return false
	}
	if int64(p.MinHTLC) >= amtMSat {
		return false
	}
	if d.Balance <= int64(p.FeeBaseMSat)+amtMSat {
		return false
	}
	return true
}

func policyCost(p graph.RoutingPolicy) float64 {
	return float64(p.FeeBaseMSat) + float64(p.MinHTLC)
}

// lexicalLessOrEqual compares (fee_base, min_htlc) lexicographically;
// the source policy wins ties.
func lexicalLessOrEqual(src, dst graph.RoutingPolicy) bool {
	if src.FeeBaseMSat != dst.FeeBaseMSat {
		return src.FeeBaseMSat < dst.FeeBaseMSat
	}
	return src.MinHTLC <= dst.MinHTLC
}
