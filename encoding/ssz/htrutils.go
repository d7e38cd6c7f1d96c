package ssz

import (
	"encoding/binary"

	"github.com/pkg/errors"
	fieldparams "github.com/prysmaticlabs/enginebridge/config/fieldparams"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
)

const maxBytesPerTransaction = 1073741824

// Uint64Root computes the HashTreeRoot Merkleization of
// a simple uint64 value according to the Ethereum
// Simple Serialize specification.
func Uint64Root(val uint64) [32]byte {
	var root [32]byte
	binary.LittleEndian.PutUint64(root[:], val)
	return root
}

// ByteListRoot computes the root of an SSZ ByteList with the given byte limit.
func ByteListRoot(b []byte, maxBytes uint64) ([32]byte, error) {
	chunks := Pack(b)
	body, err := MerkleizeVector(chunks, (maxBytes+31)/32)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not merkleize byte list")
	}
	return MixInLength(body, uint64(len(b)))
}

// TransactionsRoot computes the HTR for the Transactions' property of the ExecutionPayload
// The code was largely copy/pasted from the code generated to compute the HTR of the entire
// ExecutionPayload.
func TransactionsRoot(txs [][]byte) ([32]byte, error) {
	txRoots := make([][32]byte, len(txs))
	for i, tx := range txs {
		r, err := ByteListRoot(tx, maxBytesPerTransaction)
		if err != nil {
			return [32]byte{}, errors.Wrapf(err, "could not compute root of transaction %d", i)
		}
		txRoots[i] = r
	}
	body, err := MerkleizeVector(txRoots, fieldparams.MaxTxsPerPayloadLength)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not merkleize transactions")
	}
	return MixInLength(body, uint64(len(txs)))
}

// WithdrawalRoot computes the HashTreeRoot of a single withdrawal container.
func WithdrawalRoot(w *enginev1.Withdrawal) ([32]byte, error) {
	if w == nil {
		return [32]byte{}, errors.New("nil withdrawal")
	}
	address := bytesutil.ToBytes32(bytesutil.PadTo(bytesutil.SafeCopyBytes(w.Address), fieldparams.FeeRecipientLength))
	fieldRoots := [][32]byte{
		Uint64Root(w.Index),
		Uint64Root(uint64(w.ValidatorIndex)),
		address,
		Uint64Root(w.Amount),
	}
	return MerkleizeVector(fieldRoots, uint64(len(fieldRoots)))
}

// WithdrawalSliceRoot computes the HTR of a slice of withdrawals.
// The limit parameter is used as input to the bitwise merkleization algorithm.
func WithdrawalSliceRoot(withdrawals []*enginev1.Withdrawal, limit uint64) ([32]byte, error) {
	roots := make([][32]byte, len(withdrawals))
	for i, w := range withdrawals {
		r, err := WithdrawalRoot(w)
		if err != nil {
			return [32]byte{}, errors.Wrapf(err, "could not compute root of withdrawal %d", i)
		}
		roots[i] = r
	}
	body, err := MerkleizeVector(roots, limit)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not merkleize withdrawals")
	}
	return MixInLength(body, uint64(len(withdrawals)))
}
