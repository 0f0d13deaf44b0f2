package graph

import "strings"

// Graph is the dual-graph model: G1 (undirected topology+policy) and G2
// (directed balance+HTLC state), sharing channel_id as the join key
// between them.
type Graph struct {
	nodes    map[string]*Node
	channels map[string]*ChannelEdge

	// directed holds both sides of every channel, keyed by
	// "{channel_id}-{src_pub}".
	directed map[string]*DirectedChannel

	// adjacency maps a pubkey to the channel_ids incident to it, for
	// O(1) per-node channel enumeration.
	adjacency map[string][]string
}

// NewGraph returns an empty dual graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		channels:  make(map[string]*ChannelEdge),
		directed:  make(map[string]*DirectedChannel),
		adjacency: make(map[string][]string),
	}
}

// AddNode inserts a node into G1. If alias is empty, the conservative
// default (pubkey[:4]+".."+pubkey[-4:]) is applied.
func (g *Graph) AddNode(n *Node) {
	if n.Alias == "" {
		n.Alias = defaultAlias(n.PubKeyStr)
	}
	g.nodes[n.PubKeyStr] = n
}

// Node returns the node for a public key, or ErrNodeNotFound.
func (g *Graph) Node(pubKey string) (*Node, error) {
	n, ok := g.nodes[pubKey]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return n, nil
}

// ForEachNode calls cb for every node in G1.
func (g *Graph) ForEachNode(cb func(*Node) error) error {
	for _, n := range g.nodes {
		if err := cb(n); err != nil {
			return err
		}
	}
	return nil
}

// NumNodes returns |G1.nodes|.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumChannels returns |G1.edges|.
func (g *Graph) NumChannels() int { return len(g.channels) }

// NumDirectedChannels returns |G2.edges|.
func (g *Graph) NumDirectedChannels() int { return len(g.directed) }

// AddChannel inserts an undirected channel into G1 and populates both of
// its directed sides in G2. capacityMSat is the channel capacity
// expressed in millisatoshi (satoshi * 1000).
func (g *Graph) AddChannel(c *ChannelEdge, capacityMSat int64) {
	g.channels[c.ChannelID] = c
	g.adjacency[c.Node1Pub] = append(g.adjacency[c.Node1Pub], c.ChannelID)
	g.adjacency[c.Node2Pub] = append(g.adjacency[c.Node2Pub], c.ChannelID)

	fwd := newDirectedChannel(c.ChannelID, c.Node1Pub, c.Node2Pub, capacityMSat)
	rev := newDirectedChannel(c.ChannelID, c.Node2Pub, c.Node1Pub, capacityMSat)
	g.directed[fwd.Key] = fwd
	g.directed[rev.Key] = rev
}

// Channel returns the G1 channel for a channel_id, or ErrChannelNotFound.
func (g *Graph) Channel(channelID string) (*ChannelEdge, error) {
	c, ok := g.channels[channelID]
	if !ok {
		return nil, ErrChannelNotFound
	}
	return c, nil
}

// ForEachChannel calls cb for every undirected channel in G1.
func (g *Graph) ForEachChannel(cb func(*ChannelEdge) error) error {
	for _, c := range g.channels {
		if err := cb(c); err != nil {
			return err
		}
	}
	return nil
}

// ChannelsOf returns the channel_ids incident to a node.
func (g *Graph) ChannelsOf(pubKey string) []string {
	return g.adjacency[pubKey]
}

// DirectedChannel looks up a G2 edge by its composite key.
func (g *Graph) DirectedChannel(key string) (*DirectedChannel, error) {
	d, ok := g.directed[key]
	if !ok {
		return nil, ErrDirectedEdgeNotFound
	}
	return d, nil
}

// ForEachDirectedChannel calls cb for every directed edge in G2.
func (g *Graph) ForEachDirectedChannel(cb func(*DirectedChannel) error) error {
	for _, d := range g.directed {
		if err := cb(d); err != nil {
			return err
		}
	}
	return nil
}

// GetKe2FromKe1 maps a G1 channel key and its two endpoints to the two G2
// edge keys: (key_uv, key_vu).
func GetKe2FromKe1(channelID, u, v string) (string, string) {
	return channelID + "-" + u, channelID + "-" + v
}

// GetKe1FromKe2 is the inverse of GetKe2FromKe1: split at the first "-" to
// recover the channel_id, since channel_ids themselves may not contain
// "-".
func GetKe1FromKe2(key string) string {
	idx := strings.Index(key, "-")
	if idx < 0 {
		return key
	}
	return key[:idx]
}

// OtherSideKey returns the directed-edge key for the opposite direction of
// the same channel as the directed edge d.
func (g *Graph) OtherSideKey(d *DirectedChannel) string {
	return d.ChannelID + "-" + d.DstPub
}
