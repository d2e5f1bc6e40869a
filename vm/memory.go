package vm

import "github.com/stackvm/evm/core/types"

// Memory is the frame's byte-addressable scratch space. It grows
// monotonically and is always resized in whole 32-byte words.
type Memory struct {
	store []byte
}

// NewMemory returns a new, empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the current size of the backing buffer in bytes.
func (m *Memory) Len() int {
	return len(m.store)
}

// Resize grows the buffer to at least size bytes, zero-filling the
// new region. It never shrinks.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// Set copies value into memory at [offset, offset+len(value)).
func (m *Memory) Set(offset uint64, value []byte) {
	if len(value) == 0 {
		return
	}
	copy(m.store[offset:offset+uint64(len(value))], value)
}

// Set32 writes w's 32-byte big-endian encoding at offset.
func (m *Memory) Set32(offset uint64, w *types.Word) {
	b := w.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// Get returns a copy of [offset, offset+size), clipped to what the buffer
// actually holds; bytes past the end of the buffer are simply absent from
// the result rather than zero-filled (used by frame-end return-data
// slicing, per §4.4's best-effort clipping rule).
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	end := offset + size
	if offset >= uint64(len(m.store)) {
		return nil
	}
	if end > uint64(len(m.store)) {
		end = uint64(len(m.store))
	}
	out := make([]byte, end-offset)
	copy(out, m.store[offset:end])
	return out
}

// GetPtr returns a direct slice reference to [offset, offset+size), which
// must already be within bounds (callers resize before calling this).
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// memoryCost computes the Word's quadratic expansion cost for a given
// number of 32-byte words: cost(w) = 3w + floor(w^2/512) (§4.2).
func memoryCost(words uint64) uint64 {
	return 3*words + (words*words)/512
}

// chargeMemoryExpansion computes and deducts the incremental gas cost to
// grow accounting to cover the first offset+size bytes, per §4.2. It does not
// itself resize the backing buffer; callers resize after charging
// succeeds. Returns ErrOutOfGas if gas is insufficient.
//
// addr overflow in offset+size is saturated to the max representable byte
// count rather than wrapping, so a maliciously huge offset fails with
// OutOfGas instead of silently charging for a tiny wrapped region.
func chargeMemoryExpansion(gas *uint64, memWords *uint64, offset, size uint64) error {
	newBytes := offset + size
	if newBytes < offset || newBytes < size {
		newBytes = ^uint64(0)
	}
	if newBytes == 0 {
		return nil
	}
	newWords := newBytes / 32
	if newBytes%32 != 0 {
		newWords++
	}
	if newWords <= *memWords {
		return nil
	}
	// Overflow guard: words*words overflows once words exceeds ~4.29
	// billion, at which point the cost already dwarfs any realistic gas
	// supply, so treat it as unconditionally unaffordable.
	const maxSafeWords = 1 << 32
	if newWords >= maxSafeWords {
		return ErrOutOfGas
	}
	cost := memoryCost(newWords) - memoryCost(*memWords)
	if *gas < cost {
		*gas = 0
		return ErrOutOfGas
	}
	*gas -= cost
	*memWords = newWords
	return nil
}
