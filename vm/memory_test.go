package vm

import (
	"testing"

	"github.com/stackvm/evm/core/types"
)

func TestMemorySet32AndGet(t *testing.T) {
	m := NewMemory()
	m.Resize(32)
	w := types.WordFromUint64(0x42)
	m.Set32(0, w)

	got := m.Get(0, 32)
	if len(got) != 32 || got[31] != 0x42 {
		t.Fatalf("expected last byte 0x42, got %x", got)
	}
}

func TestMemoryGetClipsAtBufferEnd(t *testing.T) {
	m := NewMemory()
	m.Resize(4)
	m.Set(0, []byte{1, 2, 3, 4})

	got := m.Get(2, 10)
	if len(got) != 2 {
		t.Fatalf("expected clipped read of 2 bytes, got %d", len(got))
	}
	if got[0] != 3 || got[1] != 4 {
		t.Fatalf("unexpected clipped bytes: %x", got)
	}
}

func TestMemoryGetPastEndIsEmpty(t *testing.T) {
	m := NewMemory()
	m.Resize(4)
	if got := m.Get(10, 5); got != nil {
		t.Fatalf("expected nil for a read entirely past the buffer, got %x", got)
	}
}

func TestChargeMemoryExpansionGrowsWordsAndCharges(t *testing.T) {
	gas := uint64(1_000_000)
	var words uint64

	if err := chargeMemoryExpansion(&gas, &words, 0, 32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if words != 1 {
		t.Fatalf("expected 1 word after charging 32 bytes, got %d", words)
	}
	if gas != 1_000_000-memoryCost(1) {
		t.Fatalf("unexpected gas after first charge: %d", gas)
	}

	// Charging again for a region already covered is free.
	before := gas
	if err := chargeMemoryExpansion(&gas, &words, 0, 32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gas != before {
		t.Fatalf("expected no additional charge for already-covered region")
	}
}

func TestChargeMemoryExpansionOutOfGas(t *testing.T) {
	gas := uint64(1)
	var words uint64
	if err := chargeMemoryExpansion(&gas, &words, 0, 1<<20); err != ErrOutOfGas {
		t.Fatalf("expected ErrOutOfGas, got %v", err)
	}
	if gas != 0 {
		t.Fatalf("expected gas zeroed on failure, got %d", gas)
	}
}

func TestMemoryCostFormula(t *testing.T) {
	// cost(w) = 3w + floor(w^2/512), per §4.2.
	cases := []struct {
		words uint64
		want  uint64
	}{
		{0, 0},
		{1, 3},
		{512, 3*512 + 512},
	}
	for _, c := range cases {
		if got := memoryCost(c.words); got != c.want {
			t.Errorf("memoryCost(%d) = %d, want %d", c.words, got, c.want)
		}
	}
}
