package common

// Signature 以太坊风格的secp256k1签名，V取27/28或0/1
type Signature struct {
	V byte
	R [32]byte
	S [32]byte
}

// Bytes return r ∥ s ∥ v with v normalized to 0/1
func (s Signature) Bytes() []byte {
	raw := make([]byte, 65)
	copy(raw[:32], s.R[:])
	copy(raw[32:64], s.S[:])
	raw[64] = s.RecoveryID()
	return raw
}

// RecoveryID return v-27 when v >= 27, otherwise v as is.
// Results other than 0/1 (eg. v=29 gives 2) are rejected by signer recovery.
func (s Signature) RecoveryID() byte {
	if s.V >= 27 {
		return s.V - 27
	}
	return s.V
}
