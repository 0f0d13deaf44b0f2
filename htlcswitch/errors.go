package htlcswitch

import "github.com/go-errors/errors"

var (
	// ErrPaymentFailed is returned when Block is called on a Payment
	// that already carries a routing error.
	ErrPaymentFailed = errors.New("htlcswitch: payment has no usable route")

	// ErrHTLCNotFound reports that no HTLC matching a payment hash exists
	// on an expected directed edge. Settle and Reverse do not return it:
	// they skip hops whose edge holds no matching in-flight HTLC.
	ErrHTLCNotFound = errors.New("htlcswitch: no matching HTLC found")

	// ErrPreimageMismatch is returned when a candidate preimage does
	// not hash to the expected payment hash.
	ErrPreimageMismatch = errors.New("htlcswitch: preimage does not match payment hash")
)
