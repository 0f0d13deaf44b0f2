package htlcswitch

import (
	"fmt"
	"testing"
	"time"

	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/lnwire"
	"github.com/lightningnetwork/lnsim/routing/route"
	"github.com/stretchr/testify/require"
)

func twoNodeGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	g.AddNode(&graph.Node{PubKeyStr: "a"})
	g.AddNode(&graph.Node{PubKeyStr: "b"})

	edge := &graph.ChannelEdge{
		ChannelID: "1x1x0", Node1Pub: "a", Node2Pub: "b",
		Capacity: 1_000_000,
	}
	g.AddChannel(edge, edge.Capacity*1000)

	fwd, _ := g.DirectedChannel("1x1x0-a")
	rev, _ := g.DirectedChannel("1x1x0-b")
	fwd.Balance = 500_000_000
	rev.Balance = 500_000_000

	return g
}

func directPaymentOf(amtSat int64) *route.Payment {
	amtMSat := lnwire.MilliSatoshi(amtSat * 1000)
	return &route.Payment{
		PubKeyOrigin:  "a",
		PubKeyDestiny: "b",
		PaymentAmount: amtSat,
		Routes: []*route.Route{
			{
				Hops: []*route.Hop{
					{
						ChannelID:        "1x1x0",
						PubKey:           "b",
						SrcPubKey:        "a",
						AmtToForward:     amtSat,
						AmtToForwardMSat: amtMSat,
					},
				},
			},
		},
	}
}

func fastSwitch(maxDiffNs int64) *Switch {
	return NewSwitch(Config{
		Implementation: ImplLND,
		MaxDiffNs:      maxDiffNs,
		Sleep:          func(time.Duration) {},
	})
}

func TestBlockSettleDirectPayment(t *testing.T) {
	g := twoNodeGraph(t)
	payment := directPaymentOf(100)

	sw := NewSwitch(Config{
		Implementation: ImplLND,
		MaxDiffNs:      1_000_000_000_000,
		Sleep:          func(time.Duration) {},
	})

	require.NoError(t, sw.Block(g, payment))
	require.NoError(t, sw.Settle(g, payment))

	fwd, err := g.DirectedChannel("1x1x0-a")
	require.NoError(t, err)
	rev, err := g.DirectedChannel("1x1x0-b")
	require.NoError(t, err)

	require.Equal(t, int64(499_900_000), fwd.Balance)
	require.Equal(t, int64(500_100_000), rev.Balance)
	require.NoError(t, g.CheckInvariants())
}

func TestReverseOnTimeoutRestoresBalances(t *testing.T) {
	g := twoNodeGraph(t)
	payment := directPaymentOf(100)

	sw := NewSwitch(Config{
		Implementation: ImplLND,
		MinDiffNs:      0,
		MaxDiffNs:      1,
		StepDiffNs:     1,
		Sleep:          func(time.Duration) {},
	})

	require.NoError(t, sw.Block(g, payment))
	require.NoError(t, sw.Settle(g, payment)) // diff (>=0) >= timeout (<=1) -> always reverses

	fwd, err := g.DirectedChannel("1x1x0-a")
	require.NoError(t, err)
	rev, err := g.DirectedChannel("1x1x0-b")
	require.NoError(t, err)

	require.Equal(t, int64(500_000_000), fwd.Balance)
	require.Equal(t, int64(500_000_000), rev.Balance)

	// The reversed HTLC is no longer in flight, so scan the edge's full
	// HTLC table rather than the in-flight lookup helper.
	var htlcRec *graph.HTLC
	for _, rec := range fwd.HTLCs {
		if rec.PaymentHash == payment.PaymentHash {
			htlcRec = rec
		}
	}
	require.NotNil(t, htlcRec)
	require.Equal(t, graph.HTLCStatusFailed, htlcRec.Status)
	require.Equal(t, graph.FailureReasonTimeout, htlcRec.FailureReason)

	require.NoError(t, g.CheckInvariants())
}

// threeNodeChain builds A--B--C with balanced 1,000,000 sat channels.
func threeNodeChain(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	for _, pub := range []string{"a", "b", "c"} {
		g.AddNode(&graph.Node{PubKeyStr: pub})
	}

	for i, pair := range [][2]string{{"a", "b"}, {"b", "c"}} {
		edge := &graph.ChannelEdge{
			ChannelID: fmt.Sprintf("%dx%dx0", i+1, i+1),
			Node1Pub:  pair[0], Node2Pub: pair[1],
			Capacity: 1_000_000,
		}
		g.AddChannel(edge, edge.Capacity*1000)

		fwd, _ := g.DirectedChannel(edge.ChannelID + "-" + pair[0])
		rev, _ := g.DirectedChannel(edge.ChannelID + "-" + pair[1])
		fwd.Balance = 500_000_000
		rev.Balance = 500_000_000
	}
	return g
}

// TestBlockSettleChainPayment drives a 1000 sat payment across the two-hop
// chain with the lnd defaults. Both hops are fee-free (first and last), so
// every traversed edge shifts by exactly the payment amount.
func TestBlockSettleChainPayment(t *testing.T) {
	g := threeNodeChain(t)

	amtMSat := lnwire.MilliSatoshi(1000 * 1000)
	payment := &route.Payment{
		PubKeyOrigin:  "a",
		PubKeyDestiny: "c",
		PaymentAmount: 1000,
		Routes: []*route.Route{{
			Hops: []*route.Hop{
				{
					ChannelID: "1x1x0", PubKey: "b", SrcPubKey: "a",
					AmtToForward: 1000, AmtToForwardMSat: amtMSat,
				},
				{
					ChannelID: "2x2x0", PubKey: "c", SrcPubKey: "b",
					AmtToForward: 1000, AmtToForwardMSat: amtMSat,
				},
			},
		}},
	}

	sw := NewSwitch(Config{
		Implementation: ImplLND,
		MaxDiffNs:      1_000_000_000_000,
		Sleep:          func(time.Duration) {},
	})

	require.NoError(t, sw.Block(g, payment))
	require.NoError(t, sw.Settle(g, payment))

	wantBalances := map[string]int64{
		"1x1x0-a": 500_000_000 - 1_000_000,
		"1x1x0-b": 500_000_000 + 1_000_000,
		"2x2x0-b": 500_000_000 - 1_000_000,
		"2x2x0-c": 500_000_000 + 1_000_000,
	}
	for key, want := range wantBalances {
		d, err := g.DirectedChannel(key)
		require.NoError(t, err)
		require.Equal(t, want, d.Balance, "edge %s", key)
	}

	require.NoError(t, g.CheckInvariants())
}

// TestBlockReverseSymmetry checks that an explicit reverse restores the
// reserved edge's balance and capacity to their pre-block values.
func TestBlockReverseSymmetry(t *testing.T) {
	g := twoNodeGraph(t)
	payment := directPaymentOf(250)
	sw := fastSwitch(1 << 60)

	fwd, err := g.DirectedChannel("1x1x0-a")
	require.NoError(t, err)
	balBefore, capBefore := fwd.Balance, fwd.Capacity

	require.NoError(t, sw.Block(g, payment))
	require.NotEqual(t, balBefore, fwd.Balance)

	require.NoError(t, sw.Reverse(g, payment))
	require.Equal(t, balBefore, fwd.Balance)
	require.Equal(t, capBefore, fwd.Capacity)
	require.NoError(t, g.CheckInvariants())
}

func TestBlockFailsOnRoutingError(t *testing.T) {
	g := twoNodeGraph(t)
	payment := &route.Payment{Error: "UNABLE TO FIND A PATH"}

	sw := fastSwitch(0)
	require.ErrorIs(t, sw.Block(g, payment), ErrPaymentFailed)
}
