package vm

import "errors"

// The closed set of fatal failure kinds a Frame (and therefore Run) can
// surface. Revert is distinguished because it alone carries a payload.
var (
	ErrOutOfGas       = errors.New("out of gas")
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrInvalidJump    = errors.New("invalid jump destination")
	ErrStackUnderflow = errors.New("stack underflow")
)

// RevertError wraps the payload a REVERT opcode published. The machine
// aborts immediately on any frame raising this, regardless of nesting
// depth (see DESIGN.md: reverts are fatal to the whole machine here).
type RevertError struct {
	Data []byte
}

func (e *RevertError) Error() string {
	return "execution reverted"
}

// asRevert reports whether err is a *RevertError and returns its payload.
func asRevert(err error) ([]byte, bool) {
	var rerr *RevertError
	if errors.As(err, &rerr) {
		return rerr.Data, true
	}
	return nil, false
}
