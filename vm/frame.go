package vm

import "github.com/stackvm/evm/core/types"

// Frame is the per-invocation execution state described in §3: a program
// counter into a shared, immutable code view; an operand stack; scratch
// memory with its word-accounting high-water mark; calldata; remaining
// gas; and the caller/callee identities for this invocation.
type Frame struct {
	PC uint64

	Stack    *Stack
	Memory   *Memory
	MemWords uint64

	Calldata []byte
	Gas      uint64

	Code      []byte
	Jumpdests Jumpdests

	Caller types.Address
	Callee types.Address
}

// NewFrame constructs a Frame ready to begin execution at pc 0.
func NewFrame(caller, callee types.Address, code []byte, jumpdests Jumpdests, calldata []byte, gas uint64) *Frame {
	return &Frame{
		Stack:     NewStack(),
		Memory:    NewMemory(),
		Calldata:  calldata,
		Gas:       gas,
		Code:      code,
		Jumpdests: jumpdests,
		Caller:    caller,
		Callee:    callee,
	}
}

// ReadOpcode returns the byte at PC and advances PC. Past the end of code
// it yields STOP without advancing (§4.2) — running off the end behaves
// exactly like an explicit STOP.
func (f *Frame) ReadOpcode() OpCode {
	if f.PC >= uint64(len(f.Code)) {
		return STOP
	}
	op := OpCode(f.Code[f.PC])
	f.PC++
	return op
}

// readPush reads the n immediate bytes of a PUSHn at the current PC,
// zero-padding on the low-order end if fewer than n bytes remain, and
// advances PC by n (or to code end on truncation), per §4.3.
func (f *Frame) readPush(n int) *types.Word {
	start := f.PC
	codeLen := uint64(len(f.Code))
	var buf [32]byte
	avail := uint64(n)
	if start+uint64(n) > codeLen {
		if start >= codeLen {
			avail = 0
		} else {
			avail = codeLen - start
		}
	}
	copy(buf[32-n:32-n+int(avail)], f.Code[start:start+avail])
	if start+uint64(n) <= codeLen {
		f.PC = start + uint64(n)
	} else {
		f.PC = codeLen
	}
	return types.WordFromBigEndian(buf[:])
}

// UseGas attempts to deduct amount from Gas. On insufficient gas it zeros
// Gas and returns false (§4.3: "set frame gas to zero and fail").
func (f *Frame) UseGas(amount uint64) bool {
	if f.Gas < amount {
		f.Gas = 0
		return false
	}
	f.Gas -= amount
	return true
}

// ChargeMemoryExpansion charges (and accounts for) growing memory to
// cover the first offset+size bytes before the caller performs the actual
// widening read/write, per §4.2.
func (f *Frame) ChargeMemoryExpansion(offset, size uint64) error {
	return chargeMemoryExpansion(&f.Gas, &f.MemWords, offset, size)
}

// growMemory resizes the backing buffer to match MemWords after a
// successful charge.
func (f *Frame) growMemory() {
	f.Memory.Resize(f.MemWords * 32)
}

// ValidJumpdest reports whether dest names a valid jump target in this
// frame's code.
func (f *Frame) ValidJumpdest(dest *types.Word) bool {
	if !dest.IsUint64() {
		return false
	}
	return f.Jumpdests.Has(dest.Uint64())
}
