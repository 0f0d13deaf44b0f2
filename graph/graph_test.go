package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTwoNodeGraph bypasses the JSON pubkey-parsing requirement (the
// snapshot loader requires real secp256k1 points) and builds the graph
// directly, for tests that only care about dual-graph bookkeeping.
func buildTwoNodeGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()

	g.AddNode(&Node{PubKeyStr: "alice-pub", Alias: "alice"})
	g.AddNode(&Node{PubKeyStr: "bob-pub", Alias: "bob"})

	edge := &ChannelEdge{
		ChannelID: "100x1x0",
		Node1Pub:  "alice-pub",
		Node2Pub:  "bob-pub",
		Capacity:  1_000_000,
		PolicySource: RoutingPolicy{
			TimeLockDelta: 144, MinHTLC: 1000,
			FeeBaseMSat: 1000, FeeRateMilliMSat: 1,
		},
		PolicyDest: RoutingPolicy{
			TimeLockDelta: 144, MinHTLC: 1000,
			FeeBaseMSat: 1000, FeeRateMilliMSat: 1,
		},
	}
	g.AddChannel(edge, edge.Capacity*1000)

	fwd, err := g.DirectedChannel("100x1x0-alice-pub")
	require.NoError(t, err)
	rev, err := g.DirectedChannel("100x1x0-bob-pub")
	require.NoError(t, err)
	fwd.Balance = 500_000_000
	rev.Balance = 500_000_000

	return g
}

func TestDualGraphInvariants(t *testing.T) {
	g := buildTwoNodeGraph(t)

	require.Equal(t, 2, g.NumNodes())
	require.Equal(t, 1, g.NumChannels())
	require.Equal(t, 2*g.NumChannels(), g.NumDirectedChannels())
	require.NoError(t, g.CheckInvariants())
}

func TestGetKeConversions(t *testing.T) {
	uv, vu := GetKe2FromKe1("100x1x0", "alice-pub", "bob-pub")
	require.Equal(t, "100x1x0-alice-pub", uv)
	require.Equal(t, "100x1x0-bob-pub", vu)
	require.Equal(t, "100x1x0", GetKe1FromKe2(uv))
}

func TestDisabledCapacity(t *testing.T) {
	g := buildTwoNodeGraph(t)
	require.Equal(t, int64(0), g.DisabledCapacity())

	c, err := g.Channel("100x1x0")
	require.NoError(t, err)
	c.PolicyDest.Disabled = true
	require.Equal(t, int64(1_000_000), g.DisabledCapacity())
}

func TestAliasDefaulting(t *testing.T) {
	require.Equal(t, "02ab..cdef", defaultAlias("02abcdefcdef"[:12]))
}

func TestLoadSnapshotNormalizesMissingPolicy(t *testing.T) {
	const (
		pub1 = "02f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"
		pub2 = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	)
	data := []byte(`{
		"nodes": [{"pub_key": "` + pub1 + `"}, {"pub_key": "` + pub2 + `", "alias": "gen"}],
		"edges": [
			{"channel_id": "100x1x0", "chan_point": "abc:0",
			 "node1_pub": "` + pub1 + `", "node2_pub": "` + pub2 + `", "capacity": 1000000,
			 "node1_policy": {"time_lock_delta": 144, "min_htlc": 1000,
				"fee_base_msat": 1000, "fee_rate_milli_msat": 1, "disabled": false}}
		]
	}`)
	g, err := LoadSnapshot(data)
	require.NoError(t, err)
	require.Equal(t, 2, g.NumNodes())
	require.Equal(t, 2, g.NumDirectedChannels())

	// Omitted alias falls back to the truncated-pubkey form.
	n, err := g.Node(pub1)
	require.NoError(t, err)
	require.Equal(t, pub1[:4]+".."+pub1[len(pub1)-4:], n.Alias)

	// The absent node2_policy normalizes to disabled, so the whole
	// channel counts as disabled capacity.
	c, err := g.Channel("100x1x0")
	require.NoError(t, err)
	require.False(t, c.PolicySource.Disabled)
	require.True(t, c.PolicyDest.Disabled)
	require.Equal(t, int64(1_000_000), g.DisabledCapacity())
}
