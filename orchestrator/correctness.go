package orchestrator

import "github.com/lightningnetwork/lnsim/graph"

// CheckCorrectness asserts the dual-graph structural and
// capacity-conservation invariants against g. A violation is fatal: the
// caller should halt rather than continue the run.
func CheckCorrectness(g *graph.Graph) error {
	return g.CheckInvariants()
}
