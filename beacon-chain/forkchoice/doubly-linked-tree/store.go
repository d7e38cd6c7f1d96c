package doublylinkedtree

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// insert registers a new block node to the fork choice store's node list.
// It then updates the new node's parent with the best child and descendant node.
func (s *Store) insert(ctx context.Context,
	slot primitives.Slot,
	root, parentRoot [32]byte,
	status forkchoicetypes.ExecutionStatus) (*Node, error) {
	_, span := trace.StartSpan(ctx, "doublyLinkedForkchoice.insert")
	defer span.End()

	s.nodesLock.Lock()
	defer s.nodesLock.Unlock()

	// Return if the block has been inserted into Store before.
	if n, ok := s.nodeByRoot[root]; ok {
		return n, nil
	}

	parent := s.nodeByRoot[parentRoot]
	if parent == nil && s.treeRootNode != nil {
		return nil, errors.Wrapf(errInvalidParentRoot, "parent %#x of block %#x", bytesutil.Trunc(parentRoot[:]), bytesutil.Trunc(root[:]))
	}
	if parent != nil && parent.payload.IsInvalid() {
		return nil, errors.Wrapf(errInvalidParentRoot, "parent %#x has an invalid payload", bytesutil.Trunc(parentRoot[:]))
	}

	n := &Node{
		slot:     slot,
		root:     root,
		parent:   parent,
		payload:  status,
		children: make([]*Node, 0),
	}

	s.nodeByRoot[root] = n
	if status.Kind != forkchoicetypes.Irrelevant {
		s.nodeByPayload[status.BlockHash] = n
	}
	if parent == nil {
		s.treeRootNode = n
	} else {
		parent.children = append(parent.children, n)
	}

	blocksInserted.Inc()
	storeSize.Set(float64(len(s.nodeByRoot)))
	log.WithFields(logrus.Fields{
		"slot":            slot,
		"root":            fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
		"executionStatus": status.Kind.String(),
	}).Debug("Inserted node into fork choice store")
	return n, nil
}

// protoBlock returns the fork choice view of the node.
// This assumes the caller holds a lock on nodesLock.
func (n *Node) protoBlock() *forkchoicetypes.ProtoBlock {
	pb := &forkchoicetypes.ProtoBlock{
		Slot:            n.slot,
		Root:            n.root,
		ExecutionStatus: n.payload,
	}
	if n.parent != nil {
		pb.ParentRoot = n.parent.root
	}
	return pb
}

// isDescendantOf returns true if n descends from ancestor or is ancestor itself.
// This assumes the caller holds a lock on nodesLock.
func (n *Node) isDescendantOf(ancestor *Node) bool {
	for node := n; node != nil; node = node.parent {
		if node == ancestor {
			return true
		}
		if node.slot < ancestor.slot {
			return false
		}
	}
	return false
}
