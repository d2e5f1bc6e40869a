// Package types defines the small set of value types shared across the
// interpreter: addresses and the 256-bit word.
package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// AddressLength is the byte width of an Address (160 bits).
const AddressLength = 20

// Address is a 160-bit account identifier.
type Address [AddressLength]byte

// BytesToAddress converts b to an Address, left-padding if shorter than
// AddressLength and taking the low AddressLength bytes if longer.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// AddressFromWord takes the low 20 bytes of w's big-endian encoding.
func AddressFromWord(w *uint256.Int) Address {
	return Address(w.Bytes20())
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Bytes returns the byte representation of a.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the 0x-prefixed hex representation of a.
func (a Address) Hex() string { return fmt.Sprintf("0x%x", a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// ZeroAddress is the sentinel external caller of the outermost frame.
var ZeroAddress = Address{}

// OutermostCallee is the fixed address of the outermost frame's callee,
// i.e. the contract a Machine is constructed to execute.
var OutermostCallee = BytesToAddress([]byte{0xc0, 0xff, 0xee})
