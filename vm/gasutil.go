package vm

import "github.com/stackvm/evm/core/types"

// wordToUint64Checked converts w to a uint64, reporting false if w does not
// fit — used wherever a Word names a byte offset/size or a gas amount, so a
// value with any high limb set is treated as "absurdly large" rather than
// silently truncated.
func wordToUint64Checked(w *types.Word) (uint64, bool) {
	if !w.IsUint64() {
		return 0, false
	}
	return w.Uint64(), true
}

// safeAdd returns a+b and false if that sum overflows a uint64.
func safeAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
