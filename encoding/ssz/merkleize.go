package ssz

import (
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/gohashtree"
)

const zeroHashesLevels = 64

// ZeroHashes is a precomputed table of roots of all-zero subtrees, indexed by depth.
var ZeroHashes [zeroHashesLevels + 1][32]byte

func init() {
	for i := 0; i < zeroHashesLevels; i++ {
		digests := make([][32]byte, 1)
		if err := gohashtree.Hash(digests, [][32]byte{ZeroHashes[i], ZeroHashes[i]}); err != nil {
			panic(err)
		}
		ZeroHashes[i+1] = digests[0]
	}
}

// Depth is the height of the smallest power of two tree holding v leaves.
func Depth(v uint64) uint8 {
	if v <= 1 {
		return 0
	}
	return uint8(bits.Len64(v - 1)) // #nosec G115
}

// MerkleizeVector hashes a list of 32-byte chunks into the root of a tree
// sized for length leaves.
func MerkleizeVector(elements [][32]byte, length uint64) ([32]byte, error) {
	if uint64(len(elements)) > length {
		return [32]byte{}, errors.Errorf("merkleizing list that is too large, %d over limit %d", len(elements), length)
	}
	depth := Depth(length)
	if len(elements) == 0 {
		return ZeroHashes[depth], nil
	}
	layer := make([][32]byte, len(elements))
	copy(layer, elements)
	for i := uint8(0); i < depth; i++ {
		if len(layer)%2 == 1 {
			layer = append(layer, ZeroHashes[i])
		}
		digests := make([][32]byte, len(layer)/2)
		if err := gohashtree.Hash(digests, layer); err != nil {
			return [32]byte{}, err
		}
		layer = digests
	}
	return layer[0], nil
}

// MixInLength mixes the length of a list into its merkle root.
func MixInLength(root [32]byte, length uint64) ([32]byte, error) {
	var lengthChunk [32]byte
	binary.LittleEndian.PutUint64(lengthChunk[:], length)
	digests := make([][32]byte, 1)
	if err := gohashtree.Hash(digests, [][32]byte{root, lengthChunk}); err != nil {
		return [32]byte{}, err
	}
	return digests[0], nil
}

// Pack chunkifies a byte slice into 32-byte leaves, zero padding the last one.
func Pack(input []byte) [][32]byte {
	numChunks := (len(input) + 31) / 32
	chunks := make([][32]byte, numChunks)
	for i := range chunks {
		copy(chunks[i][:], input[32*i:])
	}
	return chunks
}
