package vm

import "github.com/stackvm/evm/core/types"

// stackLimit is the maximum number of operand-stack entries (§3, §5).
const stackLimit = 1024

// Stack is the per-frame operand stack: an ordered sequence of 256-bit
// Words, top at the end.
type Stack struct {
	data []*types.Word
}

// NewStack returns a new empty Stack.
func NewStack() *Stack {
	return &Stack{data: make([]*types.Word, 0, 16)}
}

// Push pushes val onto the stack. Depth beyond stackLimit is treated as
// the same failure kind as underflow (see DESIGN.md Open Questions: the
// spec leaves overflow enforcement to the implementer's discretion).
func (s *Stack) Push(val *types.Word) error {
	if len(s.data) >= stackLimit {
		return ErrStackUnderflow
	}
	s.data = append(s.data, val)
	return nil
}

// Pop removes and returns the top element. Callers must check Len first;
// Pop on an empty stack panics, matching the teacher's stack implementation
// (the interpreter loop is expected to validate minStack before popping).
func (s *Stack) Pop() *types.Word {
	n := len(s.data) - 1
	v := s.data[n]
	s.data = s.data[:n]
	return v
}

// Peek returns the top element without removing it.
func (s *Stack) Peek() *types.Word {
	return s.data[len(s.data)-1]
}

// Back returns the nth element from the top (0-indexed: 0 = top).
func (s *Stack) Back(n int) *types.Word {
	return s.data[len(s.data)-1-n]
}

// Swap swaps the top element with the nth element from the top.
func (s *Stack) Swap(n int) {
	top := len(s.data) - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

// Dup duplicates the nth element from the top (1-indexed: 1 = top) and
// pushes the copy, subject to the same overflow check as Push.
func (s *Stack) Dup(n int) error {
	val := new(types.Word).Set(s.data[len(s.data)-n])
	return s.Push(val)
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.data)
}
