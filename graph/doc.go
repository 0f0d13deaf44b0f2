// Package graph implements the dual-graph data model at the core of the
// simulator: an undirected topology-and-policy graph (G1) and a directed
// balance-and-HTLC-state graph (G2) that mirrors it.
package graph
