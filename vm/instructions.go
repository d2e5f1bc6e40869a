package vm

import (
	"github.com/stackvm/evm/core/types"
	"github.com/stackvm/evm/crypto"
)

// executionFunc is the signature every jump-table entry's execute field
// carries. Non-nil []byte is only meaningful for the halting opcodes
// (STOP/RETURN/REVERT): it becomes the frame's return data.
type executionFunc func(f *Frame, m *Machine) ([]byte, error)

// --- Arithmetic -------------------------------------------------------
//
// Pop order for the non-commutative ops is b (first pop) then a (second
// pop); the result is a OP b (§4.3).

func opAdd(f *Frame, m *Machine) ([]byte, error) {
	b := f.Stack.Pop()
	a := f.Stack.Pop()
	return nil, f.Stack.Push(new(types.Word).Add(a, b))
}

func opMul(f *Frame, m *Machine) ([]byte, error) {
	b := f.Stack.Pop()
	a := f.Stack.Pop()
	return nil, f.Stack.Push(new(types.Word).Mul(a, b))
}

func opSub(f *Frame, m *Machine) ([]byte, error) {
	b := f.Stack.Pop()
	a := f.Stack.Pop()
	return nil, f.Stack.Push(new(types.Word).Sub(a, b))
}

func opDiv(f *Frame, m *Machine) ([]byte, error) {
	b := f.Stack.Pop()
	a := f.Stack.Pop()
	res := new(types.Word)
	if b.IsZero() {
		res.Clear()
	} else {
		res.Div(a, b)
	}
	return nil, f.Stack.Push(res)
}

// --- Comparison ---------------------------------------------------------

func opLt(f *Frame, m *Machine) ([]byte, error) {
	b := f.Stack.Pop()
	a := f.Stack.Pop()
	return nil, f.Stack.Push(boolWord(a.Lt(b)))
}

func opGt(f *Frame, m *Machine) ([]byte, error) {
	b := f.Stack.Pop()
	a := f.Stack.Pop()
	return nil, f.Stack.Push(boolWord(a.Gt(b)))
}

func opEq(f *Frame, m *Machine) ([]byte, error) {
	b := f.Stack.Pop()
	a := f.Stack.Pop()
	return nil, f.Stack.Push(boolWord(a.Eq(b)))
}

func opIszero(f *Frame, m *Machine) ([]byte, error) {
	a := f.Stack.Pop()
	return nil, f.Stack.Push(boolWord(a.IsZero()))
}

func boolWord(b bool) *types.Word {
	if b {
		return types.WordFromUint64(1)
	}
	return types.ZeroWord()
}

// --- Hashing -------------------------------------------------------------

func opSha3(f *Frame, m *Machine) ([]byte, error) {
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()
	offset, size, err := memoryWindow(offsetW, sizeW)
	if err != nil {
		return nil, err
	}
	if err := f.ChargeMemoryExpansion(offset, size); err != nil {
		return nil, err
	}
	f.growMemory()
	hash := crypto.Keccak256(f.Memory.GetPtr(offset, size))
	return nil, f.Stack.Push(types.WordFromBigEndian(hash))
}

// --- Calldata / return data ---------------------------------------------

func opCalldataload(f *Frame, m *Machine) ([]byte, error) {
	offsetW := f.Stack.Pop()
	offset, ok := wordToUint64Checked(offsetW)
	if !ok || offset >= uint64(len(f.Calldata)) {
		return nil, f.Stack.Push(types.ZeroWord())
	}
	var buf [32]byte
	copy(buf[:], f.Calldata[offset:])
	return nil, f.Stack.Push(types.WordFromBigEndian(buf[:]))
}

func opReturndatasize(f *Frame, m *Machine) ([]byte, error) {
	return nil, f.Stack.Push(types.WordFromUint64(uint64(len(m.ReturnData))))
}

func opReturndatacopy(f *Frame, m *Machine) ([]byte, error) {
	memOffsetW := f.Stack.Pop()
	retOffsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()

	memOffset, ok1 := wordToUint64Checked(memOffsetW)
	retOffset, ok2 := wordToUint64Checked(retOffsetW)
	size, ok3 := wordToUint64Checked(sizeW)
	if !ok1 || !ok2 || !ok3 {
		return nil, ErrInvalidOpcode
	}
	end, ok := safeAdd(retOffset, size)
	if !ok || end > uint64(len(m.ReturnData)) {
		return nil, ErrInvalidOpcode
	}
	if err := f.ChargeMemoryExpansion(memOffset, size); err != nil {
		return nil, err
	}
	f.growMemory()
	f.Memory.Set(memOffset, m.ReturnData[retOffset:end])
	return nil, nil
}

// --- Memory --------------------------------------------------------------

func opMload(f *Frame, m *Machine) ([]byte, error) {
	offsetW := f.Stack.Pop()
	offset, ok := wordToUint64Checked(offsetW)
	if !ok {
		return nil, ErrOutOfGas
	}
	if err := f.ChargeMemoryExpansion(offset, 32); err != nil {
		return nil, err
	}
	f.growMemory()
	return nil, f.Stack.Push(types.WordFromBigEndian(f.Memory.GetPtr(offset, 32)))
}

func opMstore(f *Frame, m *Machine) ([]byte, error) {
	offsetW := f.Stack.Pop()
	value := f.Stack.Pop()
	offset, ok := wordToUint64Checked(offsetW)
	if !ok {
		return nil, ErrOutOfGas
	}
	if err := f.ChargeMemoryExpansion(offset, 32); err != nil {
		return nil, err
	}
	f.growMemory()
	f.Memory.Set32(offset, value)
	return nil, nil
}

// --- Storage ---------------------------------------------------------

func opSload(f *Frame, m *Machine) ([]byte, error) {
	key := f.Stack.Pop()
	acct := m.accountView(f.Callee)
	return nil, f.Stack.Push(acct.Load(key))
}

func opSstore(f *Frame, m *Machine) ([]byte, error) {
	key := f.Stack.Pop()
	value := f.Stack.Pop()
	acct := m.account(f.Callee)
	acct.Store(key, value)
	return nil, nil
}

// --- Control flow ------------------------------------------------------

func opJump(f *Frame, m *Machine) ([]byte, error) {
	dest := f.Stack.Pop()
	if !f.ValidJumpdest(dest) {
		return nil, ErrInvalidJump
	}
	f.PC, _ = wordToUint64Checked(dest)
	return nil, nil
}

func opJumpi(f *Frame, m *Machine) ([]byte, error) {
	dest := f.Stack.Pop()
	cond := f.Stack.Pop()
	if !f.ValidJumpdest(dest) {
		return nil, ErrInvalidJump
	}
	if !cond.IsZero() {
		f.PC, _ = wordToUint64Checked(dest)
	}
	return nil, nil
}

func opJumpdest(f *Frame, m *Machine) ([]byte, error) {
	return nil, nil
}

// --- Stack manipulation --------------------------------------------------

func opPop(f *Frame, m *Machine) ([]byte, error) {
	f.Stack.Pop()
	return nil, nil
}

// makePush returns an executionFunc for PUSHn.
func makePush(n int) executionFunc {
	return func(f *Frame, m *Machine) ([]byte, error) {
		return nil, f.Stack.Push(f.readPush(n))
	}
}

// makeDup returns an executionFunc for DUPn.
func makeDup(n int) executionFunc {
	return func(f *Frame, m *Machine) ([]byte, error) {
		return nil, f.Stack.Dup(n)
	}
}

// makeSwap returns an executionFunc for SWAPn.
func makeSwap(n int) executionFunc {
	return func(f *Frame, m *Machine) ([]byte, error) {
		f.Stack.Swap(n)
		return nil, nil
	}
}

// --- Halting -------------------------------------------------------------

func opStop(f *Frame, m *Machine) ([]byte, error) {
	return nil, nil
}

func opReturn(f *Frame, m *Machine) ([]byte, error) {
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()
	offset, size, err := memoryWindow(offsetW, sizeW)
	if err != nil {
		return nil, err
	}
	if err := f.ChargeMemoryExpansion(offset, size); err != nil {
		return nil, err
	}
	// No growMemory here: the return window is sliced against whatever the
	// buffer actually holds, not pre-grown to cover it. A region never
	// touched by a prior MSTORE yields a short (or empty) payload rather
	// than zero bytes (§4.4 best-effort clipping).
	return f.Memory.Get(offset, size), nil
}

func opRevert(f *Frame, m *Machine) ([]byte, error) {
	offsetW := f.Stack.Pop()
	sizeW := f.Stack.Pop()
	offset, size, err := memoryWindow(offsetW, sizeW)
	if err != nil {
		return nil, err
	}
	if err := f.ChargeMemoryExpansion(offset, size); err != nil {
		return nil, err
	}
	payload := f.Memory.Get(offset, size)
	return payload, &RevertError{Data: payload}
}

// memoryWindow decodes a (offset, size) pair popped off the stack,
// reporting ErrOutOfGas if either value cannot be represented as a byte
// count — an absurdly large request can never be affordable anyway.
func memoryWindow(offsetW, sizeW *types.Word) (offset, size uint64, err error) {
	offset, ok1 := wordToUint64Checked(offsetW)
	size, ok2 := wordToUint64Checked(sizeW)
	if !ok1 || !ok2 {
		return 0, 0, ErrOutOfGas
	}
	return offset, size, nil
}

// --- Call ----------------------------------------------------------------

func opCall(f *Frame, m *Machine) ([]byte, error) {
	gasLimitW := f.Stack.Pop()
	toW := f.Stack.Pop()
	f.Stack.Pop() // value; not used, no balance transfer is performed
	argsOffsetW := f.Stack.Pop()
	argsSizeW := f.Stack.Pop()
	retOffsetW := f.Stack.Pop()
	retSizeW := f.Stack.Pop()

	argsOffset, argsSize, err := memoryWindow(argsOffsetW, argsSizeW)
	if err != nil {
		return nil, err
	}
	if err := f.ChargeMemoryExpansion(argsOffset, argsSize); err != nil {
		return nil, err
	}
	f.growMemory()

	retOffset, retSize, err := memoryWindow(retOffsetW, retSizeW)
	if err != nil {
		return nil, err
	}
	if err := f.ChargeMemoryExpansion(retOffset, retSize); err != nil {
		return nil, err
	}
	// The ret window's backing buffer is grown lazily at frame-end
	// copy-back time; only the word-accounting and its gas are charged now.
	m.PendingRetOffset = retOffset
	m.PendingRetSize = retSize

	avail := f.Gas - f.Gas/64
	forward := avail
	if g, ok := wordToUint64Checked(gasLimitW); ok && g < avail {
		forward = g
	}
	f.Gas -= forward

	calldata := append([]byte(nil), f.Memory.GetPtr(argsOffset, argsSize)...)

	to := types.AddressFromWord(toW)
	callee := m.accountView(to)

	child := NewFrame(f.Callee, to, callee.Code, callee.Jumpdests, calldata, forward)
	m.pushFrame(child)
	return nil, nil
}
