// Package vm implements the interpreter loop: the stack, memory, jump
// table, and call-frame lifecycle described in the machine specification.
package vm

import (
	"github.com/stackvm/evm/core/types"
	"github.com/stackvm/evm/log"
)

// vmLog returns the "vm" module logger derived from the current default
// logger, so a level raised later by log.SetDefault (cmd/stackvm -v) applies.
func vmLog() *log.Logger { return log.Default().Module("vm") }

// OutcomeKind is the closed set of results run can produce (§6).
type OutcomeKind int

const (
	Success OutcomeKind = iota
	Revert
	OutOfGas
	InvalidOpcodeOutcome
	InvalidJumpOutcome
	StackUnderflowOutcome
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "Success"
	case Revert:
		return "Revert"
	case OutOfGas:
		return "OutOfGas"
	case InvalidOpcodeOutcome:
		return "InvalidOpcode"
	case InvalidJumpOutcome:
		return "InvalidJump"
	case StackUnderflowOutcome:
		return "StackUnderflow"
	default:
		return "Unknown"
	}
}

// Outcome is what Run returns: a kind plus, for Success/Revert, a payload.
type Outcome struct {
	Kind OutcomeKind
	Data []byte
}

var jumpTable = NewJumpTable()

// Machine is one execution: a fixed outermost code/calldata/gas budget, a
// map of accounts (the outermost callee plus any created by SSTORE; SLOAD
// and CALL never add one), a call stack of frames, the shared return-data
// bus, and the single outstanding (offset, size) pending copy-back request
// a CALL leaves for its callee's eventual frame-end (§4.3, §4.4).
type Machine struct {
	Accounts map[types.Address]*Account

	frames []*Frame

	ReturnData []byte

	PendingRetOffset uint64
	PendingRetSize   uint64
}

// NewMachine constructs a Machine ready to execute code against calldata,
// with initialStorage seeded onto the outermost callee account and
// gasLimit assigned to its outermost frame (§6 Construction).
func NewMachine(code, calldata []byte, initialStorage map[types.Word]types.Word, gasLimit uint64) *Machine {
	outermost := NewAccount(code)
	for k, v := range initialStorage {
		k, v := k, v
		outermost.Store(&k, &v)
	}

	m := &Machine{
		Accounts: map[types.Address]*Account{
			types.OutermostCallee: outermost,
		},
	}
	f := NewFrame(types.ZeroAddress, types.OutermostCallee, code, outermost.Jumpdests, calldata, gasLimit)
	m.frames = append(m.frames, f)
	return m
}

// account returns the Account for addr, creating an empty one on first
// touch. Only SSTORE drives this path (§3 Lifecycle: accounts are created
// by the constructor and by the first SSTORE touching an absent account);
// SLOAD and CALL must not conjure an account merely by reading one, so
// they use accountView instead.
func (m *Machine) account(addr types.Address) *Account {
	if a, ok := m.Accounts[addr]; ok {
		return a
	}
	vmLog().Debug("creating empty account on first touch", "address", addr.Hex())
	a := NewAccount(nil)
	m.Accounts[addr] = a
	return a
}

// accountView returns the Account for addr without creating one: a fresh
// empty Account on a miss, left uninserted in m.Accounts. Used by SLOAD
// and CALL, whose reads must stay invisible in post-execution account
// inspection (§3 Lifecycle, §6 Post-execution inspection).
func (m *Machine) accountView(addr types.Address) *Account {
	if a, ok := m.Accounts[addr]; ok {
		return a
	}
	return NewAccount(nil)
}

// top returns the currently executing frame.
func (m *Machine) top() *Frame {
	return m.frames[len(m.frames)-1]
}

// pushFrame makes f the new top frame (a CALL invocation).
func (m *Machine) pushFrame(f *Frame) {
	m.frames = append(m.frames, f)
}

// endFrame is the successful half of the frame-end protocol described in
// §4.4: it is never reached for a failing frame, since every failure kind
// (Revert included) aborts the whole Run loop directly instead.
func (m *Machine) endFrame(ended *Frame, retData []byte) {
	m.ReturnData = retData
	m.frames = m.frames[:len(m.frames)-1]
	if len(m.frames) == 0 {
		return
	}

	caller := m.top()
	caller.Gas += ended.Gas
	caller.Stack.Push(types.WordFromUint64(1))

	if m.PendingRetSize == 0 {
		return
	}
	n := uint64(len(m.ReturnData))
	if n > m.PendingRetSize {
		n = m.PendingRetSize
	}
	if n == 0 {
		return
	}
	caller.Memory.Resize(m.PendingRetOffset + n)
	caller.Memory.Set(m.PendingRetOffset, m.ReturnData[:n])
}

// Run drives the interpreter to completion: one opcode at a time on the
// top frame, until the call stack drains (Success) or a fatal condition
// aborts the whole machine (§4.3, §4.5).
func (m *Machine) Run() Outcome {
	for {
		f := m.top()
		op := f.ReadOpcode()

		def := jumpTable[op]
		if def == nil {
			return Outcome{Kind: InvalidOpcodeOutcome}
		}
		if f.Stack.Len() < def.minStack {
			return Outcome{Kind: StackUnderflowOutcome}
		}
		if def.constantGas > 0 && !f.UseGas(def.constantGas) {
			return Outcome{Kind: OutOfGas}
		}

		ret, err := def.execute(f, m)
		if err != nil {
			return m.outcomeForError(err)
		}

		if def.halts {
			m.endFrame(f, ret)
			if len(m.frames) == 0 {
				return Outcome{Kind: Success, Data: m.ReturnData}
			}
		}
	}
}

// outcomeForError maps an opcode execution error to the Outcome the whole
// machine aborts with. Every failure kind is fatal at the machine level in
// this minimal design, regardless of call-stack depth (§4.5).
func (m *Machine) outcomeForError(err error) Outcome {
	if data, ok := asRevert(err); ok {
		return Outcome{Kind: Revert, Data: data}
	}
	switch err {
	case ErrInvalidJump:
		return Outcome{Kind: InvalidJumpOutcome}
	case ErrInvalidOpcode:
		return Outcome{Kind: InvalidOpcodeOutcome}
	case ErrStackUnderflow:
		return Outcome{Kind: StackUnderflowOutcome}
	default:
		return Outcome{Kind: OutOfGas}
	}
}
