// Package seed implements the distribution-driven assignment of initial
// per-direction balances and pending-HTLC locks onto a populated dual
// graph.
package seed
