package testing

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

// GetPayloadArgs records the arguments of a GetPayload call.
type GetPayloadArgs struct {
	Version       int
	ParentHash    [32]byte
	Timestamp     uint64
	PrevRandao    [32]byte
	FinalizedHash [32]byte
	ProposerIndex primitives.ValidatorIndex
}

// TerminalBlockAnswer is the canned answer for IsValidTerminalPowBlockHash.
type TerminalBlockAnswer struct {
	Valid bool
	Known bool
}

// EngineClient --
type EngineClient struct {
	NewPayloadResp          *pb.PayloadStatus
	ErrNewPayload           error
	TerminalBlocks          map[common.Hash]TerminalBlockAnswer
	ErrIsValidTerminalBlock error
	TerminalBlockHash       common.Hash
	TerminalBlockHashExists bool
	ErrTerminalBlockHash    error
	ExecutionPayload        *pb.ExecutionPayload
	ExecutionPayloadCapella *pb.ExecutionPayloadCapella
	ErrGetPayload           error
	// GetPayloadBlock, when set, is closed by the test to let GetPayload return.
	GetPayloadBlock chan struct{}

	lock                 sync.Mutex
	NotifiedPayloads     []interfaces.ExecutionData
	TerminalBlockQueries []common.Hash
	GetPayloadCalls      []GetPayloadArgs
}

// NotifyNewPayload --
func (e *EngineClient) NotifyNewPayload(_ context.Context, payload interfaces.ExecutionData) (*pb.PayloadStatus, error) {
	e.lock.Lock()
	e.NotifiedPayloads = append(e.NotifiedPayloads, payload)
	e.lock.Unlock()
	return e.NewPayloadResp, e.ErrNewPayload
}

// IsValidTerminalPowBlockHash --
func (e *EngineClient) IsValidTerminalPowBlockHash(_ context.Context, hash common.Hash) (bool, bool, error) {
	e.lock.Lock()
	e.TerminalBlockQueries = append(e.TerminalBlockQueries, hash)
	e.lock.Unlock()
	if e.ErrIsValidTerminalBlock != nil {
		return false, false, e.ErrIsValidTerminalBlock
	}
	a, ok := e.TerminalBlocks[hash]
	if !ok {
		return false, false, nil
	}
	return a.Valid, a.Known, nil
}

// GetTerminalPowBlockHash --
func (e *EngineClient) GetTerminalPowBlockHash(_ context.Context) (common.Hash, bool, error) {
	return e.TerminalBlockHash, e.TerminalBlockHashExists, e.ErrTerminalBlockHash
}

// GetPayload --
func (e *EngineClient) GetPayload(
	ctx context.Context,
	v int,
	parentHash [32]byte,
	timestamp uint64,
	prevRandao [32]byte,
	finalizedHash [32]byte,
	proposerIndex primitives.ValidatorIndex,
) (interfaces.ExecutionData, error) {
	e.lock.Lock()
	e.GetPayloadCalls = append(e.GetPayloadCalls, GetPayloadArgs{
		Version:       v,
		ParentHash:    parentHash,
		Timestamp:     timestamp,
		PrevRandao:    prevRandao,
		FinalizedHash: finalizedHash,
		ProposerIndex: proposerIndex,
	})
	e.lock.Unlock()
	if e.GetPayloadBlock != nil {
		select {
		case <-e.GetPayloadBlock:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.ErrGetPayload != nil {
		return nil, e.ErrGetPayload
	}
	if v >= version.Capella {
		return blocks.WrappedExecutionPayloadCapella(e.ExecutionPayloadCapella)
	}
	return blocks.WrappedExecutionPayload(e.ExecutionPayload)
}

// Calls returns a copy of the recorded GetPayload calls.
func (e *EngineClient) Calls() []GetPayloadArgs {
	e.lock.Lock()
	defer e.lock.Unlock()
	return append([]GetPayloadArgs{}, e.GetPayloadCalls...)
}

// NotifyCount returns how many payloads were sent to NotifyNewPayload.
func (e *EngineClient) NotifyCount() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return len(e.NotifiedPayloads)
}
