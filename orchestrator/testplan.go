package orchestrator

import (
	"encoding/json"
	"sort"

	"github.com/lightningnetwork/lnsim/graph"
	"golang.org/x/exp/rand"
)

// RouteRequest is one {origin, destiny, amount} entry within a test
// plan's per-implementation route list.
type RouteRequest struct {
	Origin  string `json:"origin"`
	Destiny string `json:"destiny"`
	Amount  int64  `json:"amount"`
}

// ImplementationPlan is the per-implementation-tag section of a test
// plan document: whether to exercise it, its connection params, and the
// route requests to drive.
type ImplementationPlan struct {
	Flag   bool                   `json:"flag"`
	Node   map[string]interface{} `json:"node"`
	Routes []RouteRequest         `json:"routes"`
}

// TestPlan is the full test-plan document: a mapping from implementation
// tag to its plan.
type TestPlan map[string]ImplementationPlan

// LoadTestPlan parses a JSON test-plan document.
func LoadTestPlan(data []byte) (TestPlan, error) {
	var plan TestPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GenerateTestPlan builds a plan of numRoutes random route requests per
// implementation tag, each between two distinct random nodes of g with a
// payment amount in [1, maxAmount).
func GenerateTestPlan(g *graph.Graph, tags []string, numRoutes int,
	maxAmount int64, src rand.Source) TestPlan {

	rng := rand.New(src)
	if maxAmount < 2 {
		maxAmount = 2
	}

	var pubKeys []string
	_ = g.ForEachNode(func(n *graph.Node) error {
		pubKeys = append(pubKeys, n.PubKeyStr)
		return nil
	})
	sort.Strings(pubKeys)

	plan := make(TestPlan, len(tags))
	for _, tag := range tags {
		routes := make([]RouteRequest, 0, numRoutes)
		for i := 0; i < numRoutes && len(pubKeys) >= 2; i++ {
			oi := rng.Intn(len(pubKeys))
			di := rng.Intn(len(pubKeys))
			for di == oi {
				di = rng.Intn(len(pubKeys))
			}
			routes = append(routes, RouteRequest{
				Origin:  pubKeys[oi],
				Destiny: pubKeys[di],
				Amount:  1 + rng.Int63n(maxAmount-1),
			})
		}
		plan[tag] = ImplementationPlan{Flag: true, Routes: routes}
	}

	return plan
}

// Marshal renders the plan as an indented test-file document.
func (p TestPlan) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Parameters mirrors the parameters file schema: simulation knobs that
// aren't part of the topology snapshot or test plan.
type Parameters struct {
	PolarPath   string `json:"polar_path"`
	TestFile    string `json:"test_file"`
	ResultsFile string `json:"results_file"`
	NumK        int    `json:"num_k"`
	NumRoutes   int    `json:"num_routes"`
	MaxAmount   int64  `json:"max_amount"`
	Loop        int    `json:"loop"`
	Sleep       int64  `json:"sleep"`
	MinDiffNs   int64  `json:"min_diff_ns"`
	MaxDiffNs   int64  `json:"max_diff_ns"`
	StepDiffNs  int64  `json:"step_diff_ns"`

	// Connector carries the per-implementation connection parameter
	// blocks verbatim; the core never dials them, but a generated test
	// plan copies each block into its tag's node section.
	Connector map[string]map[string]interface{} `json:"connector"`
}

// LoadParameters parses a JSON parameters file.
func LoadParameters(data []byte) (*Parameters, error) {
	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
