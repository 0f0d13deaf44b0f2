package routing

import (
	"container/heap"

	"github.com/lightningnetwork/lnsim/graph"
)

// candidatePath is one Yen candidate: the full node sequence and its
// total cost.
type candidatePath struct {
	nodes []string
	cost  float64
	index int
}

type candidateQueue []*candidatePath

func (q candidateQueue) Len() int            { return len(q) }
func (q candidateQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q candidateQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *candidateQueue) Push(x interface{}) {
	item := x.(*candidatePath)
	item.index = len(*q)
	*q = append(*q, item)
}
func (q *candidateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// YenKShortestPaths returns up to k loop-free paths from src to dst,
// sorted by ascending cost, using the liquidity-guarded weight function.
func YenKShortestPaths(g *graph.Graph, src, dst string, amtMSat int64, k int) ([][]string, error) {
	if _, err := g.Node(src); err != nil {
		return nil, ErrEndpointNotFound
	}
	if _, err := g.Node(dst); err != nil {
		return nil, ErrEndpointNotFound
	}

	seedNodes, _, seedCost, err := shortestPath(g, src, dst, amtMSat, nil, nil)
	if err != nil {
		return nil, err
	}

	accepted := []*candidatePath{{nodes: seedNodes, cost: seedCost}}
	candidates := &candidateQueue{}
	heap.Init(candidates)

	for len(accepted) < k {
		last := accepted[len(accepted)-1]

		for i := 0; i < len(last.nodes)-1; i++ {
			spurNode := last.nodes[i]
			rootPath := last.nodes[:i+1]

			excluded := map[string]bool{}
			for _, p := range accepted {
				if len(p.nodes) > i+1 && sharesPrefix(p.nodes, rootPath) {
					removeRootEdge(g, p.nodes[i], p.nodes[i+1], excluded)
				}
			}

			// Root-path nodes (other than the spur node itself) are
			// off limits to the spur search, keeping every candidate
			// loop-free.
			excludedNodes := map[string]bool{}
			for _, n := range rootPath[:len(rootPath)-1] {
				excludedNodes[n] = true
			}

			spurNodes, _, spurCostFromSpur, err := shortestPath(g, spurNode, dst, amtMSat, excluded, excludedNodes)
			if err != nil {
				continue
			}

			totalPath := append(append([]string{}, rootPath[:len(rootPath)-1]...), spurNodes...)
			rootCost, err := pathCost(g, rootPath, amtMSat)
			if err != nil {
				continue
			}
			total := rootCost + spurCostFromSpur

			if containsPath(accepted, totalPath) {
				continue
			}

			heap.Push(candidates, &candidatePath{nodes: totalPath, cost: total})
		}

		if candidates.Len() == 0 {
			break
		}

		next := heap.Pop(candidates).(*candidatePath)
		accepted = append(accepted, next)
	}

	out := make([][]string, len(accepted))
	for i, p := range accepted {
		out[i] = p.nodes
	}
	return out, nil
}

// removeRootEdge marks the directed-edge key for u->v as excluded.
func removeRootEdge(g *graph.Graph, u, v string, excluded map[string]bool) {
	for _, d := range candidateEdges(g, u, v, nil) {
		excluded[d.Key] = true
	}
}

// sharesPrefix reports whether path starts with prefix.
func sharesPrefix(path, prefix []string) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i, n := range prefix {
		if path[i] != n {
			return false
		}
	}
	return true
}

// containsPath reports whether any accepted path equals candidate.
func containsPath(accepted []*candidatePath, candidate []string) bool {
	for _, p := range accepted {
		if len(p.nodes) != len(candidate) {
			continue
		}
		match := true
		for i := range p.nodes {
			if p.nodes[i] != candidate[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// pathCost sums the edge weights along an already-known node sequence.
func pathCost(g *graph.Graph, nodes []string, amtMSat int64) (float64, error) {
	var total float64
	for i := 0; i < len(nodes)-1; i++ {
		choice, ok := edgeWeight(g, nodes[i], nodes[i+1], amtMSat)
		if !ok {
			return 0, ErrNoPath
		}
		total += choice.cost
	}
	return total, nil
}
