package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/lightningnetwork/lnsim/connectors"
	"github.com/lightningnetwork/lnsim/graph"
	"github.com/lightningnetwork/lnsim/htlcswitch"
	"github.com/lightningnetwork/lnsim/lnwire"
	"github.com/lightningnetwork/lnsim/routing"
	"github.com/lightningnetwork/lnsim/routing/route"
	"github.com/lightningnetwork/lnsim/seed"
)

// buildRing constructs a ring of n nodes with liquid, enabled channels,
// a topology dense enough that most random pairs are routable.
func buildRing(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()

	for i := 0; i < n; i++ {
		g.AddNode(&graph.Node{PubKeyStr: fmt.Sprintf("node%02d", i)})
	}

	policy := graph.RoutingPolicy{
		TimeLockDelta: 40, MinHTLC: 1, FeeBaseMSat: 1000,
	}
	for i := 0; i < n; i++ {
		u := fmt.Sprintf("node%02d", i)
		v := fmt.Sprintf("node%02d", (i+1)%n)
		edge := &graph.ChannelEdge{
			ChannelID:    fmt.Sprintf("%dx%dx0", i+1, i+1),
			Node1Pub:     u,
			Node2Pub:     v,
			Capacity:     1_000_000,
			PolicySource: policy,
			PolicyDest:   policy,
		}
		g.AddChannel(edge, edge.Capacity*1000)
	}

	return g
}

func fastSwitchConfig() htlcswitch.Config {
	return htlcswitch.Config{
		MaxDiffNs: 1 << 60,
		Sleep:     func(time.Duration) {},
	}
}

func TestRunProducesResultsHeader(t *testing.T) {
	g := buildRing(t, 4)
	require.NoError(t, seed.SeedBalances(g, &seed.BalanceConfig{Name: seed.BalanceConst}))

	plan := TestPlan{
		"lnd": {
			Flag: true,
			Routes: []RouteRequest{
				{Origin: "node00", Destiny: "node02", Amount: 100},
			},
		},
		"eclair": {Flag: false},
	}

	o := New(Config{
		Graph:        g,
		Params:       &Parameters{NumK: 2},
		SwitchConfig: fastSwitchConfig(),
		Clock: func() time.Time {
			return time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
		},
	})

	results, err := o.Run(plan, "ring smoke test")
	require.NoError(t, err)

	require.Equal(t, "05/01/2023, 12:00:00---ring smoke test", results["0"])

	// One route request -> forward and reverse payments.
	require.Contains(t, results, "1")
	require.Contains(t, results, "2")
	require.NotContains(t, results, "3")

	rec, ok := results["1"].(*PaymentRecord)
	require.True(t, ok)
	require.Equal(t, "node00", rec.PubKeyOrigin)
	require.NotEmpty(t, rec.Routes)
	for _, h := range rec.Routes[0].Hops {
		require.Equal(t, "SUCCEEDED", h.HTLCStatus)
	}

	require.NoError(t, CheckCorrectness(g))
}

func TestRunSkipsUnflaggedEntries(t *testing.T) {
	g := buildRing(t, 4)
	require.NoError(t, seed.SeedBalances(g, &seed.BalanceConfig{Name: seed.BalanceConst}))

	plan := TestPlan{
		"lnd": {
			Flag:   false,
			Routes: []RouteRequest{{Origin: "node00", Destiny: "node01", Amount: 10}},
		},
	}

	o := New(Config{Graph: g, SwitchConfig: fastSwitchConfig()})
	results, err := o.Run(plan, "nothing to do")
	require.NoError(t, err)
	require.Len(t, results, 1) // header only
}

func TestRunRecordsUnroutablePayment(t *testing.T) {
	g := buildRing(t, 4)
	require.NoError(t, seed.SeedBalances(g, &seed.BalanceConfig{Name: seed.BalanceConst}))

	// Half the capacity sits on each side, so a payment above it fails
	// the liquidity guard on every edge.
	plan := TestPlan{
		"lnd": {
			Flag:   true,
			Routes: []RouteRequest{{Origin: "node00", Destiny: "node02", Amount: 600_000}},
		},
	}

	o := New(Config{Graph: g, SwitchConfig: fastSwitchConfig()})
	results, err := o.Run(plan, "unroutable")
	require.NoError(t, err)

	rec, ok := results["1"].(*PaymentRecord)
	require.True(t, ok)
	require.NotEmpty(t, rec.Error)
	require.Empty(t, rec.Routes)
}

// fakeConnector satisfies connectors.LNConnector with a canned one-hop
// route and no totals, exercising the verbatim-hop-list acceptance path.
type fakeConnector struct{}

func (fakeConnector) GetInfo() (*connectors.NodeInfo, error) {
	return &connectors.NodeInfo{Alias: "fake", PubKey: "node00"}, nil
}

func (fakeConnector) QueryRoute(origin, destiny string, amountSat int64) (*route.Payment, error) {
	amtMSat := lnwire.MilliSatoshi(amountSat * 1000)
	return &route.Payment{
		PubKeyOrigin:  origin,
		PubKeyDestiny: destiny,
		PaymentAmount: amountSat,
		Routes: []*route.Route{{
			Hops: []*route.Hop{{
				ChannelID: "1x1x0", PubKey: destiny, SrcPubKey: origin,
				AmtToForward: amountSat, AmtToForwardMSat: amtMSat,
			}},
		}},
	}, nil
}

func (fakeConnector) SendPayment(*route.Payment) error { return nil }

func TestRunQueriesLiveConnector(t *testing.T) {
	g := buildRing(t, 4)
	require.NoError(t, seed.SeedBalances(g, &seed.BalanceConfig{Name: seed.BalanceConst}))

	plan := TestPlan{
		"lnd": {
			Flag:   true,
			Routes: []RouteRequest{{Origin: "node00", Destiny: "node01", Amount: 50}},
		},
	}

	o := New(Config{
		Graph:        g,
		SwitchConfig: fastSwitchConfig(),
		Connectors:   map[string]connectors.LNConnector{"lnd": fakeConnector{}},
	})

	results, err := o.Run(plan, "connector")
	require.NoError(t, err)

	// Connector payment plus the two local Yen directions.
	require.Contains(t, results, "1")
	require.Contains(t, results, "2")
	require.Contains(t, results, "3")

	rec, ok := results["1"].(*PaymentRecord)
	require.True(t, ok)
	require.Len(t, rec.Routes, 1)
	// Totals were absent from the connector's route and recomputed.
	require.Equal(t, uint64(50_000), rec.Routes[0].TotalAmtMSat)
	require.InDelta(t, 0.5, rec.Routes[0].SuccessProb, 1e-9)

	require.NoError(t, CheckCorrectness(g))
}

// TestInvariantHoldsOver1000RandomPayments seeds the ring with uniform
// balances and constant HTLC locks, then drives 1000 random pay/settle
// cycles, asserting the capacity-conservation invariant at the end and
// at every intermediate resolution (Run re-checks after each payment).
func TestInvariantHoldsOver1000RandomPayments(t *testing.T) {
	g := buildRing(t, 10)

	src := rand.NewSource(42)
	require.NoError(t, seed.SeedBalances(g, &seed.BalanceConfig{
		Name: seed.BalanceUnif,
		Src:  src,
	}))
	require.NoError(t, seed.SeedHTLCs(g, &seed.HTLCConfig{
		Number:      3,
		AmountFract: 0.1,
	}))
	require.NoError(t, CheckCorrectness(g))

	sw := htlcswitch.NewSwitch(htlcswitch.Config{
		Implementation: htlcswitch.ImplLND,
		MaxDiffNs:      1 << 60,
		Sleep:          func(time.Duration) {},
	})

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		oi := rng.Intn(10)
		di := rng.Intn(10)
		if oi == di {
			continue
		}
		origin := fmt.Sprintf("node%02d", oi)
		destiny := fmt.Sprintf("node%02d", di)

		p := routing.QueryRouteYen(g, origin, destiny, 1+rng.Int63n(100), 1)
		if p.Failed() {
			continue
		}
		require.NoError(t, sw.Block(g, p))
		require.NoError(t, sw.Settle(g, p))
	}

	require.NoError(t, CheckCorrectness(g))
}

func TestGenerateTestPlan(t *testing.T) {
	g := buildRing(t, 5)

	plan := GenerateTestPlan(g, []string{"lnd", "eclair"}, 3, 1000,
		rand.NewSource(1))

	require.Len(t, plan, 2)
	for _, tag := range []string{"lnd", "eclair"} {
		entry := plan[tag]
		require.True(t, entry.Flag)
		require.Len(t, entry.Routes, 3)
		for _, r := range entry.Routes {
			require.NotEqual(t, r.Origin, r.Destiny)
			require.GreaterOrEqual(t, r.Amount, int64(1))
			require.Less(t, r.Amount, int64(1000))
		}
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter(0)
	require.Equal(t, 1, c.PreIncrement())
	require.Equal(t, 1, c.PostIncrement())
	require.Equal(t, 2, c.Value())
	require.Equal(t, 1, c.PreDecrement())
	require.Equal(t, 1, c.PostDecrement())
	require.Equal(t, 0, c.Value())
}

func TestResultsSaveRoundTrip(t *testing.T) {
	path := t.TempDir() + "/results.json"

	r := NewResults(time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC), "persist")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, "05/01/2023, 12:00:00---persist", loaded["0"])
}
