package lnwire

import "fmt"

// MilliSatoshi represents a thousandth of a satoshi. Thousandth of a
// satoshi is the smallest unit that may be transferred via an HTLC
// within the simulator, mirroring the real Lightning wire format.
type MilliSatoshi uint64

// NewMSatFromSatoshis creates a MilliSatoshi from a whole-satoshi amount.
func NewMSatFromSatoshis(sat int64) MilliSatoshi {
	return MilliSatoshi(sat * 1000)
}

// ToSatoshis converts the amount to satoshis, truncating any fractional
// millisatoshi remainder.
func (m MilliSatoshi) ToSatoshis() int64 {
	return int64(m / 1000)
}

// String returns the string representation of the millisatoshi amount.
func (m MilliSatoshi) String() string {
	return fmt.Sprintf("%d mSAT", uint64(m))
}
