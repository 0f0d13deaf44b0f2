package routing

import "github.com/go-errors/errors"

var (
	// ErrNoPath is returned when Dijkstra or a Yen spur search finds no
	// route between the requested endpoints.
	ErrNoPath = errors.New("routing: no path found")

	// ErrEndpointNotFound is returned when either the source or
	// destination pubkey is absent from the graph.
	ErrEndpointNotFound = errors.New("routing: endpoint not found")
)
