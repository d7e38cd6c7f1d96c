package blockchain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/async"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
)

var (
	// ErrNoExecutionConnection is returned when a payload must be verified but no execution engine is configured.
	ErrNoExecutionConnection = errors.New("no execution engine connection")
	// ErrExecutionLayerMissing is returned when a payload must be built but no execution engine is configured.
	ErrExecutionLayerMissing = errors.New("execution layer is missing")
	// ErrRequestFailed is returned when the execution engine could not be reached or answered garbage.
	ErrRequestFailed = errors.New("execution engine request failed")
	// ErrUnableToComputeTimeAtSlot is returned when the slot clock cannot express the start of a slot.
	ErrUnableToComputeTimeAtSlot = errors.New("unable to compute time at slot")
	// ErrTerminalPoWBlockLookupFailed is returned when the terminal proof-of-work block search fails.
	ErrTerminalPoWBlockLookupFailed = errors.New("terminal proof-of-work block lookup failed")
	// ErrMissingFinalizedBlock is returned when the finalized block is neither in fork choice nor in the database.
	ErrMissingFinalizedBlock = errors.New("missing finalized block")
	// ErrFailedToReadFinalizedBlock is returned when the database fails to load the finalized block.
	ErrFailedToReadFinalizedBlock = errors.New("failed to read finalized block")
	// ErrGetPayloadFailed is returned when the execution engine fails to build a payload.
	ErrGetPayloadFailed = errors.New("get payload failed")
	// ErrShuttingDown is returned when work cannot be spawned because the node is stopping.
	ErrShuttingDown = async.ErrShuttingDown
	// ErrPerBlockProcessing is returned when the payload fails the engine independent checks.
	ErrPerBlockProcessing = errors.New("per block processing failed")
	// ErrNotifierConsumed is returned when a payload notifier is used more than once.
	ErrNotifierConsumed = errors.New("payload notifier already consumed")
)

// RejectedByExecutionEngineError is returned when the execution engine reports a payload as invalid.
type RejectedByExecutionEngineError struct {
	Status *enginev1.PayloadStatus
}

func (e *RejectedByExecutionEngineError) Error() string {
	if e.Status == nil {
		return "rejected by execution engine"
	}
	msg := fmt.Sprintf("rejected by execution engine with status %s", e.Status.Status)
	if e.Status.Status == enginev1.PayloadStatus_INVALID {
		msg += fmt.Sprintf(" (latest valid hash %#x)", e.Status.LatestValidHash)
	}
	if e.Status.ValidationError != "" {
		msg += ": " + e.Status.ValidationError
	}
	return msg
}

// InvalidActivationEpochError is returned when a merge block predates the terminal block hash activation epoch.
type InvalidActivationEpochError struct {
	ActivationEpoch primitives.Epoch
	Epoch           primitives.Epoch
}

func (e *InvalidActivationEpochError) Error() string {
	return fmt.Sprintf("block epoch %d is before terminal block hash activation epoch %d", e.Epoch, e.ActivationEpoch)
}

// InvalidTerminalBlockHashError is returned when a merge block does not build on the configured terminal block.
type InvalidTerminalBlockHashError struct {
	TerminalBlockHash common.Hash
	PayloadParentHash common.Hash
}

func (e *InvalidTerminalBlockHashError) Error() string {
	return fmt.Sprintf("payload parent hash %#x does not match terminal block hash %#x", e.PayloadParentHash, e.TerminalBlockHash)
}

// InvalidTerminalPoWBlockError is returned when the execution engine says a merge block's parent is not the
// terminal proof-of-work block.
type InvalidTerminalPoWBlockError struct {
	ParentHash common.Hash
}

func (e *InvalidTerminalPoWBlockError) Error() string {
	return fmt.Sprintf("payload parent %#x is not a valid terminal proof-of-work block", e.ParentHash)
}

// InvalidPayloadTimestampError is returned when a gossip block's payload timestamp does not match its slot.
type InvalidPayloadTimestampError struct {
	Expected uint64
	Found    uint64
}

func (e *InvalidPayloadTimestampError) Error() string {
	return fmt.Sprintf("invalid payload timestamp: expected %d, found %d", e.Expected, e.Found)
}

// ParentExecutionPayloadInvalidError is returned when a block builds on a block with an invalid payload.
type ParentExecutionPayloadInvalidError struct {
	ParentRoot [32]byte
}

func (e *ParentExecutionPayloadInvalidError) Error() string {
	return fmt.Sprintf("parent block %#x has an invalid execution payload", e.ParentRoot)
}

// An invalid block is the block that fails state transition based on the core protocol rules.
// The beacon node shall not be accepting nor building blocks that branch off from an invalid block.
// Some examples of invalid blocks are:
// The block violates state transition rules.
// The block is deemed invalid according to execution layer client.
// The block builds on a parent with an invalid execution payload.
type invalidBlock struct {
	error
	root [32]byte
}

type invalidBlockError interface {
	Error() string
	BlockRoot() [32]byte
}

// BlockRoot returns the invalid block root.
func (e invalidBlock) BlockRoot() [32]byte {
	return e.root
}

// Unwrap --
func (e invalidBlock) Unwrap() error {
	return e.error
}

// IsInvalidBlock returns true if the error has `invalidBlock`.
func IsInvalidBlock(e error) bool {
	if e == nil {
		return false
	}
	var target invalidBlockError
	return errors.As(e, &target)
}

// InvalidBlockRoot returns the invalid block root. If the error
// doesn't have an invalid blockroot. [32]byte{} is returned.
func InvalidBlockRoot(e error) [32]byte {
	var target invalidBlockError
	if e == nil || !errors.As(e, &target) {
		return [32]byte{}
	}
	return target.BlockRoot()
}
