// Package asm is a minimal symbolic assembler for the interpreter's
// bytecode format. It exists only to make the vm package's test fixtures
// readable; it is not part of the interpreter core and
// carries no gas or jumpdest semantics of its own.
package asm

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/stackvm/evm/core/types"
	"github.com/stackvm/evm/vm"
)

// Assemble turns whitespace-separated, case-insensitive mnemonic tokens
// into a bytecode buffer. PUSHn consumes one additional token as its
// immediate: either a 0x-prefixed hex literal (left-padded to n bytes) or
// a decimal integer (encoded big-endian in n bytes, taking the low n
// bytes of its 256-bit form).
func Assemble(src string) ([]byte, error) {
	tokens := strings.Fields(src)
	var out []byte

	for i := 0; i < len(tokens); i++ {
		name := strings.ToUpper(tokens[i])
		op, ok := vm.ParseOpCode(name)
		if !ok {
			return nil, fmt.Errorf("asm: unknown mnemonic %q", tokens[i])
		}
		out = append(out, byte(op))

		if !op.IsPush() {
			continue
		}
		n := op.PushSize()
		i++
		if i >= len(tokens) {
			return nil, fmt.Errorf("asm: %s missing its immediate operand", name)
		}
		imm, err := encodeImmediate(tokens[i], n)
		if err != nil {
			return nil, fmt.Errorf("asm: %s: %w", name, err)
		}
		out = append(out, imm...)
	}
	return out, nil
}

// encodeImmediate decodes a single PUSHn operand token into exactly n
// big-endian bytes.
func encodeImmediate(tok string, n int) ([]byte, error) {
	buf := make([]byte, n)

	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		hexDigits := tok[2:]
		if len(hexDigits)%2 != 0 {
			hexDigits = "0" + hexDigits
		}
		raw, err := hex.DecodeString(hexDigits)
		if err != nil {
			return nil, fmt.Errorf("invalid hex literal %q: %w", tok, err)
		}
		if len(raw) > n {
			raw = raw[len(raw)-n:]
		}
		copy(buf[n-len(raw):], raw)
		return buf, nil
	}

	v := new(types.Word)
	if err := v.SetFromDecimal(tok); err != nil {
		return nil, fmt.Errorf("invalid immediate %q", tok)
	}
	b := v.Bytes32()
	copy(buf, b[32-n:])
	return buf, nil
}
