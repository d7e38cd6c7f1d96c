package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/config/params"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// ValidateMergeBlock validates a block that may be the first to carry an execution payload.
// When a terminal block hash override is configured the block is checked against it without asking
// the execution engine. Otherwise the payload's parent must be the terminal proof-of-work block.
//
// An engine that does not know the parent yet cannot decide; the block is accepted and the caller is
// expected to import it optimistically.
//
// Pseudocode definition:
//
//	def validate_merge_block(block: BeaconBlock) -> None:
//	    if TERMINAL_BLOCK_HASH != Hash32():
//	        # If `TERMINAL_BLOCK_HASH` is used as an override, the activation epoch must be reached.
//	        assert compute_epoch_at_slot(block.slot) >= TERMINAL_BLOCK_HASH_ACTIVATION_EPOCH
//	        assert block.body.execution_payload.parent_hash == TERMINAL_BLOCK_HASH
//	        return
//
//	    pow_block = get_pow_block(block.body.execution_payload.parent_hash)
//	    # Check if `pow_block` is available
//	    assert pow_block is not None
//	    pow_parent = get_pow_block(pow_block.parent_hash)
//	    # Check if `pow_parent` is available
//	    assert pow_parent is not None
//	    # Check if `pow_block` is a valid terminal PoW block
//	    assert is_valid_terminal_pow_block(pow_block, pow_parent)
func (s *Service) ValidateMergeBlock(ctx context.Context, blk interfaces.ReadOnlyBeaconBlock) error {
	ctx, span := trace.StartSpan(ctx, "blockChain.validateMergeBlock")
	defer span.End()

	if blk == nil || blk.IsNil() {
		return errors.New("nil block")
	}
	payload, err := blk.Body().Execution()
	if err != nil {
		return errors.Wrap(err, "could not get execution payload")
	}
	if payload == nil || payload.IsNil() {
		return errors.New("nil execution payload")
	}
	parentHash := common.BytesToHash(payload.ParentHash())

	cfg := params.BeaconConfig()
	if cfg.TerminalBlockHash != cfg.ZeroHash {
		epoch := slots.ToEpoch(blk.Slot())
		if epoch < cfg.TerminalBlockHashActivationEpoch {
			mergeBlockChecksCount.WithLabelValues("invalid_activation_epoch").Inc()
			return invalidBlock{error: &InvalidActivationEpochError{
				ActivationEpoch: cfg.TerminalBlockHashActivationEpoch,
				Epoch:           epoch,
			}}
		}
		if parentHash != cfg.TerminalBlockHash {
			mergeBlockChecksCount.WithLabelValues("invalid_terminal_block_hash").Inc()
			return invalidBlock{error: &InvalidTerminalBlockHashError{
				TerminalBlockHash: cfg.TerminalBlockHash,
				PayloadParentHash: parentHash,
			}}
		}
		mergeBlockChecksCount.WithLabelValues("override").Inc()
		return nil
	}

	if s.cfg.ExecutionEngineCaller == nil {
		return ErrNoExecutionConnection
	}
	valid, known, err := s.cfg.ExecutionEngineCaller.IsValidTerminalPowBlockHash(ctx, parentHash)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if !known {
		mergeBlockChecksCount.WithLabelValues("unknown").Inc()
		log.WithFields(logrus.Fields{
			"slot":       blk.Slot(),
			"parentHash": parentHash.Hex(),
		}).Debug("Terminal proof-of-work block is not known to the execution engine yet")
		return nil
	}
	if !valid {
		mergeBlockChecksCount.WithLabelValues("invalid_terminal_pow_block").Inc()
		return invalidBlock{error: &InvalidTerminalPoWBlockError{ParentHash: parentHash}}
	}
	mergeBlockChecksCount.WithLabelValues("valid").Inc()
	log.WithFields(logrus.Fields{
		"slot":       blk.Slot(),
		"parentHash": parentHash.Hex(),
	}).Info("Validated terminal proof-of-work block")
	return nil
}
