package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/async"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/core/blocks"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/core/helpers"
	coreTime "github.com/prysmaticlabs/enginebridge/beacon-chain/core/time"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/state"
	"github.com/prysmaticlabs/enginebridge/config/params"
	consensusblocks "github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"github.com/prysmaticlabs/enginebridge/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// preparePayloadArgs holds everything taken from the proposal state, so the spawned build does not
// retain the state itself.
type preparePayloadArgs struct {
	version       int
	slot          primitives.Slot
	epoch         primitives.Epoch
	mergeComplete bool
	timestamp     uint64
	random        [32]byte
	latestHash    [32]byte
	finalized     forkchoicetypes.Checkpoint
	proposerIndex primitives.ValidatorIndex
}

// PreparePayloadHandle is an execution payload build running in the background. Dropping the handle
// only discards the result: the build, engine calls included, keeps running until Cancel is called or
// the executor stops.
type PreparePayloadHandle struct {
	h *async.Handle[interfaces.ExecutionData]
}

// Await blocks until the payload is built or ctx is done.
func (p *PreparePayloadHandle) Await(ctx context.Context) (interfaces.ExecutionData, error) {
	return p.h.Await(ctx)
}

// Cancel stops the build. A request already sent to the execution engine is not withdrawn.
func (p *PreparePayloadHandle) Cancel() {
	p.h.Cancel()
}

// GetExecutionPayload starts building the execution payload for a block proposed on top of st. The
// values needed from st are read before returning; the build itself runs on the service's executor.
// ErrShuttingDown is returned when the executor no longer accepts work.
//
// Pseudocode definition:
//
//	def get_execution_payload(payload_id: Optional[PayloadId], execution_engine: ExecutionEngine) -> ExecutionPayload:
//	    if payload_id is None:
//	        # Pre-merge, empty payload
//	        return ExecutionPayload()
//	    else:
//	        return execution_engine.get_payload(payload_id)
func (s *Service) GetExecutionPayload(
	st state.ReadOnlyBeaconState,
	finalized forkchoicetypes.Checkpoint,
	proposerIndex primitives.ValidatorIndex,
) (*PreparePayloadHandle, error) {
	if st == nil {
		return nil, errors.New("nil state")
	}
	if blocks.IsPreBellatrixVersion(st.Version()) {
		return nil, errors.Errorf("cannot build an execution payload on a %s state", version.String(st.Version()))
	}
	args, err := payloadArgsFromState(st, finalized, proposerIndex)
	if err != nil {
		return nil, err
	}
	h, err := async.SpawnHandle(s.executor, "get_execution_payload", func(ctx context.Context) (interfaces.ExecutionData, error) {
		start := time.Now()
		payload, err := s.prepareExecutionPayload(ctx, args)
		payloadBuildLatency.Observe(float64(time.Since(start).Milliseconds()))
		if err != nil {
			payloadBuildCount.WithLabelValues("failure").Inc()
			return nil, err
		}
		payloadBuildCount.WithLabelValues("success").Inc()
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return &PreparePayloadHandle{h: h}, nil
}

func payloadArgsFromState(
	st state.ReadOnlyBeaconState,
	finalized forkchoicetypes.Checkpoint,
	proposerIndex primitives.ValidatorIndex,
) (*preparePayloadArgs, error) {
	epoch := coreTime.CurrentEpoch(st)
	mergeComplete, err := blocks.IsMergeTransitionComplete(st)
	if err != nil {
		return nil, errors.Wrap(err, "could not determine if merge transition is complete")
	}
	t, err := slots.ToTime(st.GenesisTime(), st.Slot())
	if err != nil {
		return nil, errors.Wrap(err, "could not compute payload timestamp")
	}
	random, err := helpers.RandaoMix(st, epoch)
	if err != nil {
		return nil, errors.Wrap(err, "could not get randao mix")
	}
	header, err := st.LatestExecutionPayloadHeader()
	if err != nil {
		return nil, errors.Wrap(err, "could not get latest execution payload header")
	}
	return &preparePayloadArgs{
		version:       st.Version(),
		slot:          st.Slot(),
		epoch:         epoch,
		mergeComplete: mergeComplete,
		timestamp:     uint64(t.Unix()),
		random:        bytesutil.ToBytes32(random),
		latestHash:    bytesutil.ToBytes32(header.BlockHash()),
		finalized:     finalized,
		proposerIndex: proposerIndex,
	}, nil
}

// prepareExecutionPayload resolves the parent and finalized hashes and asks the execution engine for a
// payload. Before the terminal proof-of-work block is known the default payload is returned instead.
//
// Pseudocode definition:
//
//	def prepare_execution_payload(state: BeaconState,
//	                              pow_chain: Dict[Hash32, PowBlock],
//	                              safe_block_hash: Hash32,
//	                              finalized_block_hash: Hash32,
//	                              suggested_fee_recipient: ExecutionAddress,
//	                              execution_engine: ExecutionEngine) -> Optional[PayloadId]:
//	    if not is_merge_transition_complete(state):
//	        is_terminal_block_hash_set = TERMINAL_BLOCK_HASH != Hash32()
//	        is_activation_epoch_reached = get_current_epoch(state) >= TERMINAL_BLOCK_HASH_ACTIVATION_EPOCH
//	        if is_terminal_block_hash_set and not is_activation_epoch_reached:
//	            # Terminal block hash is set but activation epoch is not yet reached, no prepare payload call is needed
//	            return None
//
//	        terminal_pow_block = get_terminal_pow_block(pow_chain)
//	        if terminal_pow_block is None:
//	            # Pre-merge, no prepare payload call is needed
//	            return None
//	        # Signify merge via producing on top of the terminal PoW block
//	        parent_hash = terminal_pow_block.block_hash
//	    else:
//	        # Post-merge, normal payload
//	        parent_hash = state.latest_execution_payload_header.block_hash
//
//	    # Set the forkchoice head and initiate the payload build process
//	    payload_attributes = PayloadAttributes(
//	        timestamp=compute_timestamp_at_slot(state, state.slot),
//	        prev_randao=get_randao_mix(state, get_current_epoch(state)),
//	        suggested_fee_recipient=suggested_fee_recipient,
//	    )
//	    return execution_engine.notify_forkchoice_updated(
//	        head_block_hash=parent_hash,
//	        safe_block_hash=safe_block_hash,
//	        finalized_block_hash=finalized_block_hash,
//	        payload_attributes=payload_attributes,
//	    )
func (s *Service) prepareExecutionPayload(ctx context.Context, args *preparePayloadArgs) (interfaces.ExecutionData, error) {
	ctx, span := trace.StartSpan(ctx, "blockChain.prepareExecutionPayload")
	defer span.End()

	if s.cfg.ExecutionEngineCaller == nil {
		return nil, ErrExecutionLayerMissing
	}

	parentHash := args.latestHash
	if !args.mergeComplete {
		cfg := params.BeaconConfig()
		if cfg.TerminalBlockHash != cfg.ZeroHash && args.epoch < cfg.TerminalBlockHashActivationEpoch {
			return consensusblocks.EmptyExecutionData(args.version)
		}
		terminalHash, found, err := s.cfg.ExecutionEngineCaller.GetTerminalPowBlockHash(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTerminalPoWBlockLookupFailed, err)
		}
		if !found {
			log.WithField("slot", args.slot).Debug("Terminal proof-of-work block not found, proposing without payload")
			return consensusblocks.EmptyExecutionData(args.version)
		}
		parentHash = terminalHash
	}

	finalizedHash, err := s.finalizedPayloadHash(ctx, args.finalized)
	if err != nil {
		return nil, err
	}

	payload, err := s.cfg.ExecutionEngineCaller.GetPayload(
		ctx,
		args.version,
		parentHash,
		args.timestamp,
		args.random,
		finalizedHash,
		args.proposerIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetPayloadFailed, err)
	}
	log.WithFields(logrus.Fields{
		"slot":          args.slot,
		"parentHash":    fmt.Sprintf("%#x", bytesutil.Trunc(parentHash[:])),
		"blockHash":     fmt.Sprintf("%#x", bytesutil.Trunc(payload.BlockHash())),
		"finalizedHash": fmt.Sprintf("%#x", bytesutil.Trunc(finalizedHash[:])),
		"proposerIndex": args.proposerIndex,
	}).Debug("Prepared execution payload")
	return payload, nil
}

// finalizedPayloadHash returns the payload block hash of the finalized checkpoint block, looking in fork
// choice first and in the database second. Blocks without a payload give the zero hash.
func (s *Service) finalizedPayloadHash(ctx context.Context, finalized forkchoicetypes.Checkpoint) ([32]byte, error) {
	if finalized.Root == params.BeaconConfig().ZeroHash {
		return [32]byte{}, nil
	}
	// Fork choice lock hold times are unbounded, read it on the blocking pool.
	node, err := async.SpawnBlocking(ctx, s.executor, "prepare_execution_payload_finalized_hash", func() (*forkchoicetypes.ProtoBlock, error) {
		b, ok := s.cfg.ForkChoiceStore.Block(finalized.Root)
		if !ok {
			return nil, nil
		}
		return b, nil
	})
	if err != nil {
		return [32]byte{}, err
	}
	if node != nil {
		return node.ExecutionStatus.BlockHash, nil
	}

	if s.cfg.BeaconDB == nil {
		return [32]byte{}, errors.Wrapf(ErrMissingFinalizedBlock, "root %#x", finalized.Root)
	}
	blk, err := s.cfg.BeaconDB.BlindedBlock(ctx, finalized.Root)
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: %w", ErrFailedToReadFinalizedBlock, err)
	}
	if err := consensusblocks.BeaconBlockIsNil(blk); err != nil {
		return [32]byte{}, errors.Wrapf(ErrMissingFinalizedBlock, "root %#x", finalized.Root)
	}
	payload, err := blk.Block().Body().Execution()
	if err != nil {
		// Finalized before Bellatrix.
		return [32]byte{}, nil
	}
	return bytesutil.ToBytes32(payload.BlockHash()), nil
}
