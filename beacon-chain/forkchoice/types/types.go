package types

import (
	"fmt"

	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
)

// ExecutionStatusKind enumerates the verification states of a tracked block's execution payload.
type ExecutionStatusKind int

const (
	// Irrelevant blocks are pre-merge and carry no payload to verify.
	Irrelevant ExecutionStatusKind = iota
	// Optimistic blocks were imported while the engine could not yet judge their payload.
	Optimistic
	// Valid blocks had their payload verified by the engine.
	Valid
	// Invalid blocks were rejected by the engine, directly or through an ancestor.
	Invalid
)

// String returns the lower case name of the status.
func (k ExecutionStatusKind) String() string {
	switch k {
	case Irrelevant:
		return "irrelevant"
	case Optimistic:
		return "optimistic"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ExecutionStatus is the execution verification state of a block together with its payload block hash.
// Irrelevant statuses carry the zero hash.
type ExecutionStatus struct {
	Kind      ExecutionStatusKind
	BlockHash [32]byte
}

// IsInvalid reports whether no block may be built on top of a block with this status.
func (s ExecutionStatus) IsInvalid() bool {
	return s.Kind == Invalid
}

// ProtoBlock is fork choice's lightweight record of an imported block.
type ProtoBlock struct {
	Slot            primitives.Slot
	Root            [32]byte
	ParentRoot      [32]byte
	ExecutionStatus ExecutionStatus
}

// Checkpoint is an array version of ethpb.Checkpoint. It is used internally in
// forkchoice, while the slice version is used in the interface to legacy code
// in other packages
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  [32]byte
}

// InvalidationOperation describes a chain segment to be marked invalid after the execution engine
// rejected a payload.
type InvalidationOperation interface {
	// BlockRoot is the block the invalidation starts walking back from.
	BlockRoot() [32]byte
	// InvalidateBlockRoot reports whether BlockRoot is invalidated even when no valid ancestor is known.
	InvalidateBlockRoot() bool
	// LatestValidHash returns the most recent payload hash the engine still considers valid, if any.
	LatestValidHash() ([32]byte, bool)
}

// InvalidateMany invalidates HeadBlockRoot and its ancestors down to, but excluding, the block whose
// payload hash is LatestValidAncestor. Descendants of every invalidated block are invalidated too.
type InvalidateMany struct {
	HeadBlockRoot        [32]byte
	AlwaysInvalidateHead bool
	LatestValidAncestor  [32]byte
}

// BlockRoot --
func (op InvalidateMany) BlockRoot() [32]byte { return op.HeadBlockRoot }

// InvalidateBlockRoot --
func (op InvalidateMany) InvalidateBlockRoot() bool { return op.AlwaysInvalidateHead }

// LatestValidHash --
func (op InvalidateMany) LatestValidHash() ([32]byte, bool) { return op.LatestValidAncestor, true }

// InvalidateOne invalidates a single block and its descendants.
type InvalidateOne struct {
	Root [32]byte
}

// BlockRoot --
func (op InvalidateOne) BlockRoot() [32]byte { return op.Root }

// InvalidateBlockRoot --
func (InvalidateOne) InvalidateBlockRoot() bool { return true }

// LatestValidHash --
func (InvalidateOne) LatestValidHash() ([32]byte, bool) { return [32]byte{}, false }
