// Package crypto provides the single hash primitive the interpreter needs:
// Keccak-256, for the SHA3 opcode.
package crypto

import "golang.org/x/crypto/sha3"

// Keccak256 computes the Keccak-256 digest of data.
func Keccak256(data []byte) []byte {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	return d.Sum(nil)
}
