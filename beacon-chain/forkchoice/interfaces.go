// Package forkchoice declares the fork choice store used to track the
// execution status of imported blocks.
package forkchoice

import (
	"context"

	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
)

// ForkChoicer is the full store.
type ForkChoicer interface {
	BlockProcessor
	Getter
	Setter
}

// BlockProcessor imports blocks. An optimistic block starts out with its
// payload unverified.
type BlockProcessor interface {
	InsertNode(ctx context.Context, blk blocks.ROBlock, optimistic bool) error
}

// Getter reads nodes and the finalized checkpoint.
type Getter interface {
	Block(root [32]byte) (*forkchoicetypes.ProtoBlock, bool)
	HasNode(root [32]byte) bool
	NodeCount() int
	IsOptimistic(root [32]byte) (bool, error)
	FinalizedCheckpoint() *forkchoicetypes.Checkpoint
}

// Setter records execution engine verdicts and finality.
type Setter interface {
	// SetOptimisticToValid marks root and its optimistic ancestors valid.
	SetOptimisticToValid(ctx context.Context, root [32]byte) error
	ProcessInvalidExecutionPayload(ctx context.Context, op forkchoicetypes.InvalidationOperation) error
	UpdateFinalizedCheckpoint(cp *forkchoicetypes.Checkpoint) error
}
