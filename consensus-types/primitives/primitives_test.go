package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_Add(t *testing.T) {
	assert.Equal(t, Slot(10), Slot(4).Add(6))
	assert.Panics(t, func() { Slot(1<<64 - 1).Add(1) })
}

func TestSlot_SubSlot(t *testing.T) {
	assert.Equal(t, Slot(2), Slot(5).SubSlot(3))
	assert.Equal(t, Slot(0), Slot(3).SubSlot(5))
}
