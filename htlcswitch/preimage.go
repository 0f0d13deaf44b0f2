package htlcswitch

import (
	"crypto/rand"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// generatePreimage produces a fresh 32-byte preimage and its SHA-256
// payment hash.
//
// A preimage derived from the destination's public key would be
// predictable to any observer, so the preimage is drawn from the system
// CSPRNG; everything downstream only depends on the opaque
// (preimage, hash) pair.
func generatePreimage() ([32]byte, [32]byte, error) {
	var preimage [32]byte
	if _, err := rand.Read(preimage[:]); err != nil {
		return preimage, [32]byte{}, err
	}

	hash := chainhash.HashB(preimage[:])

	var paymentHash [32]byte
	copy(paymentHash[:], hash)

	return preimage, paymentHash, nil
}

// verifyPreimage checks that SHA-256(preimage) == hash.
func verifyPreimage(preimage, hash [32]byte) bool {
	got := chainhash.HashB(preimage[:])
	for i := range got {
		if got[i] != hash[i] {
			return false
		}
	}
	return true
}
