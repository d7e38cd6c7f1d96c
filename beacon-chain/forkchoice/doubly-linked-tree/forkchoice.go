package doublylinkedtree

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"go.opencensus.io/trace"
)

var _ forkchoice.ForkChoicer = (*ForkChoice)(nil)

// New initializes a new fork choice store.
func New() *ForkChoice {
	s := &Store{
		finalizedCheckpoint: &forkchoicetypes.Checkpoint{},
		nodeByRoot:          make(map[[32]byte]*Node),
		nodeByPayload:       make(map[[32]byte]*Node),
	}
	return &ForkChoice{store: s}
}

// NodeCount returns the current number of nodes in the Store.
func (f *ForkChoice) NodeCount() int {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	return len(f.store.nodeByRoot)
}

// InsertNode processes a new block by inserting it to the fork choice store. Blocks without an
// execution payload are tracked as irrelevant, the rest as optimistic or valid.
func (f *ForkChoice) InsertNode(ctx context.Context, blk blocks.ROBlock, optimistic bool) error {
	ctx, span := trace.StartSpan(ctx, "doublyLinkedForkchoice.InsertNode")
	defer span.End()

	if err := blocks.BeaconBlockIsNil(blk); err != nil {
		return err
	}
	b := blk.Block()
	status, err := executionStatus(b, optimistic)
	if err != nil {
		return err
	}
	_, err = f.store.insert(ctx, b.Slot(), blk.Root(), b.ParentRoot(), status)
	return err
}

func executionStatus(b interfaces.ReadOnlyBeaconBlock, optimistic bool) (forkchoicetypes.ExecutionStatus, error) {
	if b.Version() < version.Bellatrix {
		return forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Irrelevant}, nil
	}
	payload, err := b.Body().Execution()
	if err != nil {
		return forkchoicetypes.ExecutionStatus{}, errors.Wrap(err, "could not get execution payload")
	}
	empty, err := blocks.IsEmptyExecutionData(payload)
	if err != nil {
		return forkchoicetypes.ExecutionStatus{}, err
	}
	if empty {
		return forkchoicetypes.ExecutionStatus{Kind: forkchoicetypes.Irrelevant}, nil
	}
	kind := forkchoicetypes.Valid
	if optimistic {
		kind = forkchoicetypes.Optimistic
	}
	return forkchoicetypes.ExecutionStatus{Kind: kind, BlockHash: bytesutil.ToBytes32(payload.BlockHash())}, nil
}

// HasNode returns true if the node exists in fork choice store,
// false else wise.
func (f *ForkChoice) HasNode(root [32]byte) bool {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()

	_, ok := f.store.nodeByRoot[root]
	return ok
}

// Block returns the fork choice record of the block with the given root.
func (f *ForkChoice) Block(root [32]byte) (*forkchoicetypes.ProtoBlock, bool) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()

	node, ok := f.store.nodeByRoot[root]
	if !ok || node == nil {
		return nil, false
	}
	return node.protoBlock(), true
}

// IsOptimistic returns true if the given root has been optimistically synced.
func (f *ForkChoice) IsOptimistic(root [32]byte) (bool, error) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()

	node, ok := f.store.nodeByRoot[root]
	if !ok || node == nil {
		return true, ErrNilNode
	}
	return node.payload.Kind == forkchoicetypes.Optimistic, nil
}

// FinalizedCheckpoint of fork choice store.
func (f *ForkChoice) FinalizedCheckpoint() *forkchoicetypes.Checkpoint {
	f.store.checkpointsLock.RLock()
	defer f.store.checkpointsLock.RUnlock()
	cp := *f.store.finalizedCheckpoint
	return &cp
}

// UpdateFinalizedCheckpoint sets the finalized checkpoint. The checkpoint root must be tracked by the
// store unless it is the zero root.
func (f *ForkChoice) UpdateFinalizedCheckpoint(cp *forkchoicetypes.Checkpoint) error {
	if cp == nil {
		return errors.New("nil finalized checkpoint")
	}
	if cp.Root != [32]byte{} && !f.HasNode(cp.Root) {
		return errUnknownFinalizedRoot
	}
	f.store.checkpointsLock.Lock()
	defer f.store.checkpointsLock.Unlock()
	f.store.finalizedCheckpoint = &forkchoicetypes.Checkpoint{Epoch: cp.Epoch, Root: cp.Root}
	return nil
}

// SetOptimisticToValid sets the node with the given root as a fully validated node. All of its
// optimistic ancestors are validated with it.
func (f *ForkChoice) SetOptimisticToValid(ctx context.Context, root [32]byte) error {
	return f.store.setOptimisticToValid(ctx, root)
}

// ProcessInvalidExecutionPayload applies an invalidation operation derived from an execution engine
// rejection.
func (f *ForkChoice) ProcessInvalidExecutionPayload(ctx context.Context, op forkchoicetypes.InvalidationOperation) error {
	ctx, span := trace.StartSpan(ctx, "doublyLinkedForkchoice.ProcessInvalidExecutionPayload")
	defer span.End()

	f.store.checkpointsLock.RLock()
	finalizedRoot := f.store.finalizedCheckpoint.Root
	f.store.checkpointsLock.RUnlock()

	_, err := f.store.setOptimisticToInvalid(ctx, op, finalizedRoot)
	return err
}
