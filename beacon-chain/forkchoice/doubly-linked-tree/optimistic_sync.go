package doublylinkedtree

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	"github.com/sirupsen/logrus"
)

// setOptimisticToValid marks the node with the given root and its optimistic ancestors as valid.
func (s *Store) setOptimisticToValid(ctx context.Context, root [32]byte) error {
	s.nodesLock.Lock()
	defer s.nodesLock.Unlock()

	node, ok := s.nodeByRoot[root]
	if !ok || node == nil {
		return errors.Wrap(ErrNilNode, "could not set node to valid")
	}
	for n := node; n != nil; n = n.parent {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch n.payload.Kind {
		case forkchoicetypes.Optimistic:
			n.payload.Kind = forkchoicetypes.Valid
			optimisticPromoted.Inc()
		case forkchoicetypes.Invalid:
			return errors.Wrapf(errInvalidOptimisticStatus, "block %#x is invalid", bytesutil.Trunc(n.root[:]))
		default:
			// Valid and irrelevant ancestors are already settled, and so are theirs.
			return nil
		}
	}
	return nil
}

// setOptimisticToInvalid applies op to the store and returns the roots of every node whose status
// changed to invalid.
//
// The walk starts at op.BlockRoot() and moves to the parent until it reaches the block whose payload
// hash is the latest valid hash, or a pre-merge block. The starting block itself is only invalidated
// when the operation requests it or when the latest valid hash belongs to a known ancestor. When the
// latest valid hash is unknown, no ancestor is touched. Every descendant of an invalidated block is
// then invalidated as well.
func (s *Store) setOptimisticToInvalid(ctx context.Context, op forkchoicetypes.InvalidationOperation, finalizedRoot [32]byte) ([][32]byte, error) {
	s.nodesLock.Lock()
	defer s.nodesLock.Unlock()

	invalidationCalls.Inc()
	headRoot := op.BlockRoot()
	head, ok := s.nodeByRoot[headRoot]
	if !ok || head == nil {
		return nil, errors.Wrapf(ErrNilNode, "could not invalidate unknown block %#x", bytesutil.Trunc(headRoot[:]))
	}
	lvh, hasLVH := op.LatestValidHash()
	lvhIsAncestor := hasLVH && s.isKnownValidAncestor(head, lvh, finalizedRoot)

	seen := make(map[*Node]bool)
	walked := make([]*Node, 0)
	roots := make([][32]byte, 0)
	for node := head; node != nil; node = node.parent {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if node.payload.Kind == forkchoicetypes.Irrelevant {
			break
		}
		if node != head && !lvhIsAncestor {
			break
		}
		if hasLVH && node.payload.BlockHash == lvh {
			break
		}
		if node != head || op.InvalidateBlockRoot() || lvhIsAncestor {
			switch node.payload.Kind {
			case forkchoicetypes.Valid:
				return nil, errors.Wrapf(errValidStatusBecameInvalid, "block %#x with payload %#x",
					bytesutil.Trunc(node.root[:]), bytesutil.Trunc(node.payload.BlockHash[:]))
			case forkchoicetypes.Optimistic:
				node.payload.Kind = forkchoicetypes.Invalid
				roots = append(roots, node.root)
			}
			seen[node] = true
			walked = append(walked, node)
		}
	}

	for _, node := range walked {
		descendants, err := s.invalidateDescendants(ctx, node, seen)
		if err != nil {
			return nil, err
		}
		roots = append(roots, descendants...)
	}

	nodesInvalidated.Add(float64(len(roots)))
	if len(roots) > 0 {
		log.WithFields(logrus.Fields{
			"headRoot":        fmt.Sprintf("%#x", bytesutil.Trunc(headRoot[:])),
			"latestValidHash": fmt.Sprintf("%#x", bytesutil.Trunc(lvh[:])),
			"invalidated":     len(roots),
		}).Warn("Invalidated blocks after execution engine rejection")
	}
	return roots, nil
}

// invalidateDescendants marks every descendant of node invalid, skipping subtrees rooted at nodes
// that are already part of the invalidation.
// This assumes the caller holds a lock on nodesLock.
func (s *Store) invalidateDescendants(ctx context.Context, node *Node, seen map[*Node]bool) ([][32]byte, error) {
	roots := make([][32]byte, 0)
	for _, child := range node.children {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if seen[child] {
			continue
		}
		switch child.payload.Kind {
		case forkchoicetypes.Valid:
			return nil, errors.Wrapf(errValidStatusBecameInvalid, "descendant %#x", bytesutil.Trunc(child.root[:]))
		case forkchoicetypes.Irrelevant:
			return nil, errors.Wrapf(errIrrelevantDescendant, "descendant %#x", bytesutil.Trunc(child.root[:]))
		case forkchoicetypes.Optimistic:
			child.payload.Kind = forkchoicetypes.Invalid
			roots = append(roots, child.root)
		}
		seen[child] = true
		sub, err := s.invalidateDescendants(ctx, child, seen)
		if err != nil {
			return nil, err
		}
		roots = append(roots, sub...)
	}
	return roots, nil
}

// isKnownValidAncestor returns true if an ancestor of head carries the payload hash and that ancestor
// is the finalized block or one of its descendants.
// This assumes the caller holds a lock on nodesLock.
func (s *Store) isKnownValidAncestor(head *Node, hash [32]byte, finalizedRoot [32]byte) bool {
	ancestor, ok := s.nodeByPayload[hash]
	if !ok || ancestor == nil || !head.isDescendantOf(ancestor) {
		return false
	}
	finalized, ok := s.nodeByRoot[finalizedRoot]
	if !ok || finalized == nil {
		// An untracked finalized root means the store was started from it.
		return true
	}
	return ancestor.isDescendantOf(finalized)
}
