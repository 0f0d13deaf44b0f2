package routing

import (
	"container/heap"

	"github.com/lightningnetwork/lnsim/graph"
)

// pqItem is one entry in the Dijkstra priority queue.
type pqItem struct {
	node  string
	cost  float64
	index int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].cost < pq[j].cost }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// shortestPath computes the least-cost loop-free path from src to dst
// using Dijkstra over the liquidity-guarded edge weight.
// excludedEdges names directed-edge keys ("channel_id-pub") to treat as
// removed and excludedNodes names nodes to avoid entirely, implementing
// Yen's spur-search exclusions without mutating the live graph.
func shortestPath(g *graph.Graph, src, dst string, amtMSat int64,
	excludedEdges, excludedNodes map[string]bool) ([]string, map[string]*graph.DirectedChannel, float64, error) {
	dist := map[string]float64{src: 0}
	prevNode := map[string]string{}
	usedEdge := map[string]*graph.DirectedChannel{}
	visited := map[string]bool{}

	pq := &priorityQueue{{node: src, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true

		if u == dst {
			break
		}

		neighbors := map[string]bool{}
		for _, cid := range g.ChannelsOf(u) {
			key := cid + "-" + u
			if excludedEdges[key] {
				continue
			}
			d, err := g.DirectedChannel(key)
			if err != nil {
				continue
			}
			neighbors[d.DstPub] = true
		}

		for v := range neighbors {
			if excludedNodes[v] {
				continue
			}
			choice, ok := edgeWeightExcluding(g, u, v, amtMSat, excludedEdges)
			if !ok {
				continue
			}

			cost := dist[u] + choice.cost
			if existing, ok := dist[v]; !ok || cost < existing {
				dist[v] = cost
				prevNode[v] = u
				usedEdge[v] = choice.directed
				heap.Push(pq, &pqItem{node: v, cost: cost})
			}
		}
	}

	if _, ok := dist[dst]; !ok {
		return nil, nil, 0, ErrNoPath
	}

	// Reconstruct the path.
	var path []string
	cur := dst
	for {
		path = append([]string{cur}, path...)
		if cur == src {
			break
		}
		prev, ok := prevNode[cur]
		if !ok {
			return nil, nil, 0, ErrNoPath
		}
		cur = prev
	}

	return path, usedEdge, dist[dst], nil
}
