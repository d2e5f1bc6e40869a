package types

import "github.com/holiman/uint256"

// Word is the 256-bit unsigned integer operated on by the stack, memory,
// and storage. It is a thin alias over uint256.Int: a fixed 4-limb array,
// so Add/Sub/Mul wrap modulo 2^256 by construction and there is no
// separate "mask to 256 bits" step the way there is with math/big.
type Word = uint256.Int

// WordLength is the byte width of a Word's big-endian encoding.
const WordLength = 32

// ZeroWord returns a new Word set to zero.
func ZeroWord() *Word { return new(Word) }

// WordFromUint64 returns a new Word set to v.
func WordFromUint64(v uint64) *Word { return new(Word).SetUint64(v) }

// WordFromBigEndian decodes exactly 32 bytes (zero-padded on the left if
// shorter, truncated to the trailing 32 bytes if longer) into a new Word.
func WordFromBigEndian(b []byte) *Word {
	return new(Word).SetBytes(b)
}

// BigEndian encodes w as exactly 32 big-endian bytes.
func BigEndian(w *Word) []byte {
	b := w.Bytes32()
	return b[:]
}
