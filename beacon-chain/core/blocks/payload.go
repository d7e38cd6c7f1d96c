package blocks

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/core/helpers"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/core/time"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/state"
	"github.com/prysmaticlabs/enginebridge/config/params"
	consensus_types "github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"github.com/prysmaticlabs/enginebridge/time/slots"
)

var (
	ErrInvalidPayloadBlockHash    = errors.New("invalid payload block hash")
	ErrInvalidPayloadTimeStamp    = errors.New("invalid payload timestamp")
	ErrInvalidPayloadPrevRandao   = errors.New("invalid payload previous randao")
	ErrPayloadGasUsedExceedsLimit = errors.New("payload gas used exceeds gas limit")
	ErrPayloadExtraDataTooLong    = errors.New("payload extra data too long")
)

// IsMergeTransitionComplete returns true if the transition to Bellatrix has completed.
// Meaning the payload header in beacon state is not `ExecutionPayloadHeader()` (i.e. not empty).
//
// Pseudocode definition:
// def is_merge_transition_complete(state: BeaconState) -> bool:
//
//	return state.latest_execution_payload_header != ExecutionPayloadHeader()
func IsMergeTransitionComplete(st state.ReadOnlyBeaconState) (bool, error) {
	if st == nil {
		return false, errors.New("nil state")
	}
	if IsPreBellatrixVersion(st.Version()) {
		return false, nil
	}
	h, err := st.LatestExecutionPayloadHeader()
	if err != nil {
		return false, err
	}
	empty, err := consensus_types.IsEmptyExecutionData(h)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// IsExecutionBlock returns whether the block has a non-empty ExecutionPayload.
//
// Pseudocode definition:
// def is_execution_block(block: ReadOnlyBeaconBlock) -> bool:
//
//	return block.body.execution_payload != ExecutionPayload()
func IsExecutionBlock(body interfaces.ReadOnlyBeaconBlockBody) (bool, error) {
	if body == nil || body.IsNil() {
		return false, errors.New("nil block body")
	}
	payload, err := body.Execution()
	switch {
	case errors.Is(err, consensus_types.ErrUnsupportedField):
		return false, nil
	case err != nil:
		return false, err
	}
	isEmpty, err := consensus_types.IsEmptyExecutionData(payload)
	if err != nil {
		return false, err
	}
	return !isEmpty, nil
}

// IsExecutionEnabled returns true if the beacon chain can begin executing.
// Meaning the payload header is beacon state is non-empty or the payload in block body is non-empty.
//
// Pseudocode definition:
// def is_execution_enabled(state: BeaconState, body: ReadOnlyBeaconBlockBody) -> bool:
//
//	return is_merge_block(state, body) or is_merge_complete(state)
func IsExecutionEnabled(st state.ReadOnlyBeaconState, body interfaces.ReadOnlyBeaconBlockBody) (bool, error) {
	if st == nil || body == nil || body.IsNil() {
		return false, errors.New("nil state or block body")
	}
	if IsPreBellatrixVersion(st.Version()) {
		return false, nil
	}
	header, err := st.LatestExecutionPayloadHeader()
	if err != nil {
		return false, err
	}
	return IsExecutionEnabledUsingHeader(header, body)
}

// IsExecutionEnabledUsingHeader returns true if the execution is enabled using post processed payload header and block body.
// This is an optimized version of IsExecutionEnabled where beacon state is not required as an argument.
func IsExecutionEnabledUsingHeader(header interfaces.ExecutionData, body interfaces.ReadOnlyBeaconBlockBody) (bool, error) {
	isEmpty, err := consensus_types.IsEmptyExecutionData(header)
	if err != nil {
		return false, err
	}
	if !isEmpty {
		return true, nil
	}
	return IsExecutionBlock(body)
}

// IsPreBellatrixVersion returns true if input version is before bellatrix fork.
func IsPreBellatrixVersion(v int) bool {
	return v < version.Bellatrix
}

// ValidatePayloadWhenMergeCompletes validates if payload is valid versus input beacon state.
// These validation steps ONLY apply to post merge.
//
// Pseudocode definition:
//
//	# Verify consistency of the parent hash with respect to the previous execution payload header
//	if is_merge_complete(state):
//	    assert payload.parent_hash == state.latest_execution_payload_header.block_hash
func ValidatePayloadWhenMergeCompletes(st state.ReadOnlyBeaconState, payload interfaces.ExecutionData) error {
	complete, err := IsMergeTransitionComplete(st)
	if err != nil {
		return err
	}
	if !complete {
		return nil
	}

	header, err := st.LatestExecutionPayloadHeader()
	if err != nil {
		return err
	}
	if !bytes.Equal(payload.ParentHash(), header.BlockHash()) {
		return ErrInvalidPayloadBlockHash
	}
	return nil
}

// ValidatePayload validates if payload is valid versus input beacon state.
// These validation steps apply to both pre merge and post merge.
//
// Pseudocode definition:
//
//	# Verify random
//	assert payload.random == get_randao_mix(state, get_current_epoch(state))
//	# Verify timestamp
//	assert payload.timestamp == compute_timestamp_at_slot(state, state.slot)
func ValidatePayload(st state.ReadOnlyBeaconState, payload interfaces.ExecutionData) error {
	random, err := helpers.RandaoMix(st, time.CurrentEpoch(st))
	if err != nil {
		return err
	}

	if !bytes.Equal(payload.PrevRandao(), random) {
		return ErrInvalidPayloadPrevRandao
	}
	t, err := slots.ToTime(st.GenesisTime(), st.Slot())
	if err != nil {
		return err
	}
	if payload.Timestamp() != uint64(t.Unix()) {
		return ErrInvalidPayloadTimeStamp
	}
	return nil
}

// ValidatePayloadBounds checks the payload fields whose limits do not depend on the beacon state.
func ValidatePayloadBounds(payload interfaces.ExecutionData) error {
	if payload.GasUsed() > payload.GasLimit() {
		return errors.Wrapf(ErrPayloadGasUsedExceedsLimit, "gas used %d > gas limit %d", payload.GasUsed(), payload.GasLimit())
	}
	if uint64(len(payload.ExtraData())) > params.BeaconConfig().MaxExtraDataBytes {
		return errors.Wrapf(ErrPayloadExtraDataTooLong, "%d bytes", len(payload.ExtraData()))
	}
	return nil
}

// PartiallyVerifyExecutionPayload runs the cheap, engine independent checks of an execution payload
// against the pre-state. These checks are repeated during full block processing.
func PartiallyVerifyExecutionPayload(st state.ReadOnlyBeaconState, payload interfaces.ExecutionData) error {
	if payload == nil || payload.IsNil() {
		return errors.New("nil execution payload")
	}
	if err := ValidatePayloadWhenMergeCompletes(st, payload); err != nil {
		return err
	}
	if err := ValidatePayload(st, payload); err != nil {
		return err
	}
	return ValidatePayloadBounds(payload)
}
