package vm

import (
	"encoding/hex"
	"testing"

	"github.com/stackvm/evm/asm"
	"github.com/stackvm/evm/core/types"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	return b
}

func mustAsm(t *testing.T, src string) []byte {
	t.Helper()
	b, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("bad asm fixture %q: %v", src, err)
	}
	return b
}

// Scenario 1: ADD/RETURN.
func TestScenarioAddReturn(t *testing.T) {
	code := mustHex(t, "6005600a01600052602060"+"00f3")
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	want := make([]byte, 32)
	want[31] = 15
	if string(out.Data) != string(want) {
		t.Fatalf("expected 32-byte encoding of 15, got %x", out.Data)
	}
}

// Scenario 2: SLOAD after SSTORE.
func TestScenarioSloadAfterSstore(t *testing.T) {
	code := mustHex(t, "604260015560015460005260206000f3")
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	if out.Data[31] != 0x42 {
		t.Fatalf("expected last byte 0x42, got %x", out.Data)
	}
}

// Scenario 3: arithmetic chain ((5*10 - 2) / 4) = 12.
func TestScenarioArithmeticChain(t *testing.T) {
	code := mustHex(t, "600a600502600203600404600052602060"+"00f3")
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	if out.Data[31] != 12 {
		t.Fatalf("expected 12, got %d", out.Data[31])
	}
}

// Scenario 4: JUMPI/ISZERO.
func TestScenarioJumpiIszero(t *testing.T) {
	code := mustAsm(t, `
		PUSH1 5
		PUSH1 3
		GT
		ISZERO
		PUSH1 0x0e
		JUMPI
		PUSH1 0xaa
		PUSH1 0x11
		JUMP
		JUMPDEST
		PUSH1 0xbb
		JUMPDEST
		PUSH1 0
		MSTORE
		PUSH1 0x20
		PUSH1 0
		RETURN
	`)
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	if out.Data[31] != 0xaa {
		t.Fatalf("expected 0xaa, got %x", out.Data[31])
	}
}

// Scenario 5: SHA3 of "hello" stored high-aligned within a word.
func TestScenarioSha3(t *testing.T) {
	code := mustAsm(t, `
		PUSH32 0x00000000000000000000000000000000000000000000000000000068656c6c6f
		PUSH1 0
		MSTORE
		PUSH1 5
		PUSH1 0x1b
		SHA3
		PUSH1 0
		MSTORE
		PUSH1 0x20
		PUSH1 0
		RETURN
	`)
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	want := mustHex(t, "1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8")
	if string(out.Data) != string(want) {
		t.Fatalf("unexpected hash: %x, want %x", out.Data, want)
	}
}

// Scenario 6: out-of-gas.
func TestScenarioOutOfGas(t *testing.T) {
	code := mustAsm(t, "PUSH1 1 PUSH1 2 ADD STOP")
	m := NewMachine(code, nil, nil, 5)
	out := m.Run()
	if out.Kind != OutOfGas {
		t.Fatalf("expected OutOfGas, got %v", out.Kind)
	}
}

// Scenario 7: invalid jump.
func TestScenarioInvalidJump(t *testing.T) {
	code := mustAsm(t, "PUSH1 5 JUMP STOP")
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != InvalidJumpOutcome {
		t.Fatalf("expected InvalidJump, got %v", out.Kind)
	}
}

// Scenario 8: invalid opcode.
func TestScenarioInvalidOpcode(t *testing.T) {
	code := []byte{0x0c, 0x00}
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != InvalidOpcodeOutcome {
		t.Fatalf("expected InvalidOpcode, got %v", out.Kind)
	}
}

// Scenario 9: revert.
func TestScenarioRevert(t *testing.T) {
	code := mustAsm(t, "PUSH1 0xde PUSH1 0 MSTORE PUSH1 1 PUSH1 0x1f REVERT")
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Revert {
		t.Fatalf("expected Revert, got %v", out.Kind)
	}
	if len(out.Data) != 1 || out.Data[0] != 0xde {
		t.Fatalf("expected payload [0xde], got %x", out.Data)
	}
}

// Scenario 10: nested CALL returning RETURNDATASIZE.
func TestScenarioNestedCall(t *testing.T) {
	// This interpreter's opcode set has no MSTORE8, so the sub-contract
	// stores a full word and returns the 1-byte window at its low-order
	// end (offset 0x1f), which still carries 0xaa as its last byte.
	subCode := mustAsm(t, `
		PUSH1 0xaa
		PUSH1 0
		MSTORE
		PUSH1 1
		PUSH1 0x1f
		RETURN
	`)

	subAddr := types.BytesToAddress([]byte{0x42})

	// CALL pops gas_limit, to, value, args_offset, args_size, ret_offset,
	// ret_size in that order, so they are pushed in reverse: ret_size
	// first, gas_limit last.
	mainCode := mustAsm(t, `
		PUSH1 0
		PUSH1 0
		PUSH1 0
		PUSH1 0
		PUSH1 0
		PUSH20 0x0000000000000000000000000000000000000042
		PUSH1 0xff
		CALL
		POP
		RETURNDATASIZE
		PUSH1 0
		MSTORE
		PUSH1 0x20
		PUSH1 0
		RETURN
	`)

	m := NewMachine(mainCode, nil, nil, 1_000_000)
	m.Accounts[subAddr] = NewAccount(subCode)

	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	if out.Data[31] != 1 {
		t.Fatalf("expected RETURNDATASIZE of 1, got %d", out.Data[31])
	}
}

// RETURN/REVERT must slice whatever the buffer actually holds rather than
// pre-growing it to cover the requested window: a region never written
// by MSTORE yields an empty payload, not zero-filled bytes.
func TestReturnOfUntouchedMemoryIsEmpty(t *testing.T) {
	code := mustAsm(t, "PUSH1 5 PUSH1 0 RETURN")
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	if len(out.Data) != 0 {
		t.Fatalf("expected empty payload for untouched memory, got %x", out.Data)
	}
}

func TestRevertOfUntouchedMemoryIsEmpty(t *testing.T) {
	code := mustAsm(t, "PUSH1 5 PUSH1 0 REVERT")
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Revert {
		t.Fatalf("expected Revert, got %v", out.Kind)
	}
	if len(out.Data) != 0 {
		t.Fatalf("expected empty payload for untouched memory, got %x", out.Data)
	}
}

// SLOAD and CALL against an address never otherwise touched must not
// leave a spurious entry in the account map (§3 Lifecycle): only SSTORE
// creates an account on first touch.
func TestSloadOnUntouchedAccountDoesNotCreateEntry(t *testing.T) {
	m := NewMachine([]byte{byte(STOP)}, nil, nil, 1_000_000)
	untouched := types.BytesToAddress([]byte{0x77})
	f := NewFrame(types.ZeroAddress, untouched, nil, nil, nil, 1_000_000)
	f.Stack.Push(types.WordFromUint64(0))
	if _, err := opSload(f, m); err != nil {
		t.Fatalf("opSload error: %v", err)
	}
	if _, ok := m.Accounts[untouched]; ok {
		t.Fatalf("expected SLOAD on an untouched address not to create an account entry")
	}
}

func TestCallToUntouchedAddressDoesNotCreateEntry(t *testing.T) {
	code := mustAsm(t, `
		PUSH1 0
		PUSH1 0
		PUSH1 0
		PUSH1 0
		PUSH1 0
		PUSH20 0x0000000000000000000000000000000000000099
		PUSH1 0xff
		CALL
		POP
		STOP
	`)
	m := NewMachine(code, nil, nil, 1_000_000)
	out := m.Run()
	if out.Kind != Success {
		t.Fatalf("expected Success, got %v", out.Kind)
	}
	if len(m.Accounts) != 1 {
		t.Fatalf("expected only the outermost callee's account, got %d entries", len(m.Accounts))
	}
}
