package graph

// TotalCapacity returns the sum of all G1 channel capacities, in
// satoshis.
func (g *Graph) TotalCapacity() int64 {
	var total int64
	for _, c := range g.channels {
		total += c.Capacity
	}
	return total
}

// NodeCapacity returns the sum of the capacities of every channel
// incident to a node, in satoshis.
func (g *Graph) NodeCapacity(pubKey string) int64 {
	var total int64
	for _, cid := range g.adjacency[pubKey] {
		if c, ok := g.channels[cid]; ok {
			total += c.Capacity
		}
	}
	return total
}

// NodeBalance returns the sum of the outbound balances (millisatoshi) of
// every directed edge originating at a node.
func (g *Graph) NodeBalance(pubKey string) int64 {
	var total int64
	for _, cid := range g.adjacency[pubKey] {
		key := cid + "-" + pubKey
		if d, ok := g.directed[key]; ok {
			total += d.Balance
		}
	}
	return total
}

// ChannelsPerNode returns the number of channels incident to a node.
func (g *Graph) ChannelsPerNode(pubKey string) int {
	return len(g.adjacency[pubKey])
}

// DisabledCapacity returns the total capacity (satoshis) of channels whose
// destination-side policy is disabled or was missing from the snapshot
// (a missing policy normalizes to disabled).
func (g *Graph) DisabledCapacity() int64 {
	var total int64
	for _, c := range g.channels {
		if c.PolicyDest.Disabled {
			total += c.Capacity
		}
	}
	return total
}
