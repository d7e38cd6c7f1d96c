package blocks

import (
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
)

// ROBlock pairs a signed block with the root it is known by. The root is
// always handed in by the caller; nothing here hashes beacon blocks.
type ROBlock struct {
	interfaces.ReadOnlySignedBeaconBlock
	root [32]byte
}

// NewROBlockWithRoot rejects nil blocks.
func NewROBlockWithRoot(b interfaces.ReadOnlySignedBeaconBlock, root [32]byte) (ROBlock, error) {
	if err := BeaconBlockIsNil(b); err != nil {
		return ROBlock{}, err
	}
	return ROBlock{ReadOnlySignedBeaconBlock: b, root: root}, nil
}

func (b ROBlock) Root() [32]byte {
	return b.root
}
