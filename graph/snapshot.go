package graph

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
)

// snapshotDoc mirrors the JSON snapshot schema.
type snapshotDoc struct {
	Nodes []snapshotNode `json:"nodes"`
	Edges []snapshotEdge `json:"edges"`
}

type snapshotNode struct {
	PubKey     string   `json:"pub_key"`
	LastUpdate int64    `json:"last_update"`
	Alias      string   `json:"alias"`
	Addresses  []string `json:"addresses"`
	Color      string   `json:"color"`
	Features   []string `json:"features"`
}

type snapshotPolicy struct {
	TimeLockDelta    uint16 `json:"time_lock_delta"`
	MinHTLC          uint64 `json:"min_htlc"`
	FeeBaseMSat      uint64 `json:"fee_base_msat"`
	FeeRateMilliMSat uint64 `json:"fee_rate_milli_msat"`
	Disabled         *bool  `json:"disabled"`
	MaxHTLCMSat      uint64 `json:"max_htlc_msat"`
	LastUpdate       int64  `json:"last_update"`
}

type snapshotEdge struct {
	ChannelID   string          `json:"channel_id"`
	ChanPoint   string          `json:"chan_point"`
	LastUpdate  int64           `json:"last_update"`
	Node1Pub    string          `json:"node1_pub"`
	Node2Pub    string          `json:"node2_pub"`
	Capacity    int64           `json:"capacity"`
	Node1Policy *snapshotPolicy `json:"node1_policy"`
	Node2Policy *snapshotPolicy `json:"node2_policy"`
}

// LoadSnapshot parses a JSON topology snapshot and builds a populated dual
// graph, normalizing absent fields to conservative defaults.
func LoadSnapshot(data []byte) (*Graph, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	g := NewGraph()

	for _, sn := range doc.Nodes {
		pubBytes, err := hex.DecodeString(sn.PubKey)
		if err != nil {
			return nil, err
		}
		pub, err := btcec.ParsePubKey(pubBytes)
		if err != nil {
			return nil, err
		}

		var lastUpdate time.Time
		if sn.LastUpdate != 0 {
			lastUpdate = time.Unix(sn.LastUpdate, 0)
		}

		g.AddNode(&Node{
			PubKey:     pub,
			PubKeyStr:  sn.PubKey,
			Alias:      sn.Alias,
			LastUpdate: lastUpdate,
			Addresses:  sn.Addresses,
			Color:      sn.Color,
			Features:   sn.Features,
		})
	}

	for _, se := range doc.Edges {
		edge := &ChannelEdge{
			ChannelID:    se.ChannelID,
			ChanPoint:    se.ChanPoint,
			Node1Pub:     se.Node1Pub,
			Node2Pub:     se.Node2Pub,
			Capacity:     se.Capacity,
			PolicySource: normalizePolicy(se.Node1Policy),
			PolicyDest:   normalizePolicy(se.Node2Policy),
		}
		if se.LastUpdate != 0 {
			edge.LastUpdate = time.Unix(se.LastUpdate, 0)
		}

		g.AddChannel(edge, se.Capacity*1000)
	}

	log.Infof("Populated dual graph: %d nodes, %d channels, %d directed edges",
		g.NumNodes(), g.NumChannels(), g.NumDirectedChannels())

	return g, nil
}

// normalizePolicy fills in absent policy fields: a missing policy (nil)
// defaults to fully disabled; a present policy with an absent "disabled"
// field conservatively defaults to true.
func normalizePolicy(p *snapshotPolicy) RoutingPolicy {
	if p == nil {
		return defaultPolicy()
	}

	disabled := true
	if p.Disabled != nil {
		disabled = *p.Disabled
	}

	var lastUpdate time.Time
	if p.LastUpdate != 0 {
		lastUpdate = time.Unix(p.LastUpdate, 0)
	}

	return RoutingPolicy{
		TimeLockDelta:    p.TimeLockDelta,
		MinHTLC:          p.MinHTLC,
		FeeBaseMSat:      p.FeeBaseMSat,
		FeeRateMilliMSat: p.FeeRateMilliMSat,
		MaxHTLCMSat:      p.MaxHTLCMSat,
		Disabled:         disabled,
		LastUpdate:       lastUpdate,
	}
}
