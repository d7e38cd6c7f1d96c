// Package testing includes useful mocks for testing the execution payload checks of the blockchain package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
)

// ForkChoice wraps a fork choice store and records every invalidation handed to it. When
// ErrInvalidation is set the invalidation is recorded but not applied, and the error is returned.
type ForkChoice struct {
	forkchoice.ForkChoicer
	ErrInvalidation error

	lock          sync.Mutex
	invalidations []forkchoicetypes.InvalidationOperation
	blockLookups  int
}

// NewForkChoice wraps fc.
func NewForkChoice(fc forkchoice.ForkChoicer) *ForkChoice {
	return &ForkChoice{ForkChoicer: fc}
}

// Block --
func (f *ForkChoice) Block(root [32]byte) (*forkchoicetypes.ProtoBlock, bool) {
	f.lock.Lock()
	f.blockLookups++
	f.lock.Unlock()
	return f.ForkChoicer.Block(root)
}

// ProcessInvalidExecutionPayload --
func (f *ForkChoice) ProcessInvalidExecutionPayload(ctx context.Context, op forkchoicetypes.InvalidationOperation) error {
	f.lock.Lock()
	f.invalidations = append(f.invalidations, op)
	f.lock.Unlock()
	if f.ErrInvalidation != nil {
		return f.ErrInvalidation
	}
	return f.ForkChoicer.ProcessInvalidExecutionPayload(ctx, op)
}

// Invalidations returns the recorded invalidation operations in call order.
func (f *ForkChoice) Invalidations() []forkchoicetypes.InvalidationOperation {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]forkchoicetypes.InvalidationOperation{}, f.invalidations...)
}

// BlockLookups returns how many times Block was called.
func (f *ForkChoice) BlockLookups() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.blockLookups
}

// SlotClock is a slot clock with a fixed genesis time in seconds. Unrepresentable makes every
// StartOf call fail.
type SlotClock struct {
	Genesis         uint64
	SecondsPerSlot  uint64
	Unrepresentable bool

	lock  sync.Mutex
	calls int
}

// StartOf --
func (c *SlotClock) StartOf(slot primitives.Slot) (time.Duration, bool) {
	c.lock.Lock()
	c.calls++
	c.lock.Unlock()
	if c.Unrepresentable {
		return 0, false
	}
	secs := c.Genesis + uint64(slot)*c.SecondsPerSlot
	return time.Duration(secs) * time.Second, true
}

// Calls returns how many times StartOf was called.
func (c *SlotClock) Calls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.calls
}
