package doublylinkedtree

import (
	"sync"

	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
)

// ForkChoice defines the overall fork choice store which includes all block nodes
// and the execution status of each of them.
type ForkChoice struct {
	store *Store
}

// Store defines the fork choice store which includes block nodes and the last view of checkpoint information.
type Store struct {
	finalizedCheckpoint *forkchoicetypes.Checkpoint
	treeRootNode        *Node              // the root node of the store tree.
	nodeByRoot          map[[32]byte]*Node // nodes indexed by roots.
	nodeByPayload       map[[32]byte]*Node // nodes indexed by payload Hash
	nodesLock           sync.RWMutex
	checkpointsLock     sync.RWMutex
}

// Node defines the individual block which includes its block parent, ancestor and how much weight accounted for it.
// This is used as an array based stateful DAG for efficient fork choice look up.
type Node struct {
	slot     primitives.Slot                 // slot of the block converted to the node.
	root     [32]byte                        // root of the block converted to the node.
	payload  forkchoicetypes.ExecutionStatus // execution status and payload hash of the block.
	parent   *Node                           // parent index of this node.
	children []*Node                         // the list of direct children of this Node
}
