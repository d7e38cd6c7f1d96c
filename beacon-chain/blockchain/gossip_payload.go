package blockchain

import (
	"time"

	"github.com/pkg/errors"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	consensusblocks "github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
)

// ValidateExecutionPayloadForGossip runs the execution payload checks that a gossip block must pass before
// it is forwarded. It reads nothing but the parent's fork choice record and the slot clock.
//
// Blocks without a payload are accepted. A block building on a parent whose payload was found invalid is
// rejected outright. Once the merge is complete, or whenever the payload is not the default one, the
// payload timestamp must equal the start of the block's slot.
//
// Pseudocode definition:
//
//	if is_execution_enabled(state, block.body):
//	    [REJECT] The block's execution payload timestamp is correct with respect to the slot
//	    -- i.e. execution_payload.timestamp == compute_timestamp_at_slot(state, block.slot).
func (s *Service) ValidateExecutionPayloadForGossip(parent *forkchoicetypes.ProtoBlock, blk interfaces.ReadOnlyBeaconBlock) error {
	if parent == nil {
		return errors.New("nil parent block")
	}
	if blk == nil || blk.IsNil() {
		return errors.New("nil block")
	}
	payload, err := blk.Body().Execution()
	if err != nil {
		// Nothing to check on a block that carries no payload.
		return nil
	}

	var mergeComplete bool
	switch parent.ExecutionStatus.Kind {
	case forkchoicetypes.Valid, forkchoicetypes.Optimistic:
		mergeComplete = true
	case forkchoicetypes.Invalid:
		gossipPayloadRejectedCount.WithLabelValues("parent_invalid").Inc()
		return invalidBlock{error: &ParentExecutionPayloadInvalidError{ParentRoot: parent.Root}}
	}

	if !mergeComplete {
		empty, err := consensusblocks.IsEmptyExecutionData(payload)
		if err != nil {
			return errors.Wrap(err, "could not check if execution payload is empty")
		}
		if empty {
			return nil
		}
	}

	if s.cfg.SlotClock == nil {
		return errors.Wrap(ErrUnableToComputeTimeAtSlot, "no slot clock")
	}
	start, ok := s.cfg.SlotClock.StartOf(blk.Slot())
	if !ok {
		gossipPayloadRejectedCount.WithLabelValues("slot_time").Inc()
		return errors.Wrapf(ErrUnableToComputeTimeAtSlot, "slot %d", blk.Slot())
	}
	expected := uint64(start / time.Second)
	if found := payload.Timestamp(); found != expected {
		gossipPayloadRejectedCount.WithLabelValues("timestamp").Inc()
		return invalidBlock{error: &InvalidPayloadTimestampError{Expected: expected, Found: found}}
	}
	return nil
}
