package primitives

import "fmt"

// Slot represents a single slot.
type Slot uint64

// Add increases the slot by x, panicking on overflow.
func (s Slot) Add(x uint64) Slot {
	r := uint64(s) + x
	if r < uint64(s) {
		panic(fmt.Sprintf("slot overflow: %d + %d", s, x))
	}
	return Slot(r)
}

// SubSlot returns the difference between two slots, floored at zero.
func (s Slot) SubSlot(x Slot) Slot {
	if x > s {
		return 0
	}
	return s - x
}
