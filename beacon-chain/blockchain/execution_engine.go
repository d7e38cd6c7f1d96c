package blockchain

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/core/blocks"
	forkchoicetypes "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/types"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/state"
	consensusblocks "github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// PayloadVerificationStatus is the verdict on one block's execution payload. It is computed once per
// import attempt and never persisted.
type PayloadVerificationStatus int

const (
	// PayloadVerified means the execution engine fully validated the payload.
	PayloadVerified PayloadVerificationStatus = iota
	// PayloadOptimistic means the execution engine accepted the payload without validating it.
	PayloadOptimistic
	// PayloadIrrelevant means execution is not yet enabled for the block.
	PayloadIrrelevant
)

func (s PayloadVerificationStatus) String() string {
	switch s {
	case PayloadVerified:
		return "verified"
	case PayloadOptimistic:
		return "optimistic"
	case PayloadIrrelevant:
		return "irrelevant"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsOptimistic reports whether the block must be imported as optimistic.
func (s PayloadVerificationStatus) IsOptimistic() bool {
	return s == PayloadOptimistic
}

// PayloadNotifier holds a block waiting for its payload to be verified by the execution engine.
// Blocks for which execution is not enabled carry a precomputed Irrelevant verdict and never reach
// the engine. A notifier is consumed by its first NotifyNewPayload call.
type PayloadNotifier struct {
	chain    *Service
	block    interfaces.ReadOnlySignedBeaconBlock
	known    *PayloadVerificationStatus
	consumed atomic.Bool
}

// NewPayloadNotifier runs the engine independent payload checks of blk against its pre-state st.
// A payload failing them is rejected with ErrPerBlockProcessing before the engine sees it.
func NewPayloadNotifier(chain *Service, blk interfaces.ReadOnlySignedBeaconBlock, st state.ReadOnlyBeaconState) (*PayloadNotifier, error) {
	if chain == nil {
		return nil, errors.New("nil chain service")
	}
	if err := consensusblocks.BeaconBlockIsNil(blk); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New("nil pre-state")
	}
	n := &PayloadNotifier{chain: chain, block: blk}
	body := blk.Block().Body()
	enabled, err := blocks.IsExecutionEnabled(st, body)
	if err != nil {
		return nil, errors.Wrap(err, "could not determine if execution is enabled")
	}
	if !enabled {
		irrelevant := PayloadIrrelevant
		n.known = &irrelevant
		return n, nil
	}
	payload, err := body.Execution()
	if err != nil {
		return nil, errors.Wrap(err, "could not get execution payload")
	}
	if err := blocks.PartiallyVerifyExecutionPayload(st, payload); err != nil {
		return nil, invalidBlock{error: fmt.Errorf("%w: %w", ErrPerBlockProcessing, err)}
	}
	return n, nil
}

// NotifyNewPayload returns the verdict on the notifier's block, asking the execution engine when it
// was not known at construction. It fails with ErrNotifierConsumed when called a second time.
func (n *PayloadNotifier) NotifyNewPayload(ctx context.Context) (PayloadVerificationStatus, error) {
	if !n.consumed.CompareAndSwap(false, true) {
		return 0, ErrNotifierConsumed
	}
	if n.known != nil {
		newPayloadIrrelevantCount.Inc()
		return *n.known, nil
	}
	return n.chain.notifyNewPayload(ctx, n.block.Block())
}

// notifyNewPayload sends the block's payload to the execution engine and maps its answer to a
// verification status. When the engine reports the payload INVALID, the chain ending at the block's
// parent is invalidated in fork choice before the rejection is returned; a failed invalidation is
// returned instead of the rejection.
func (s *Service) notifyNewPayload(ctx context.Context, blk interfaces.ReadOnlyBeaconBlock) (PayloadVerificationStatus, error) {
	ctx, span := trace.StartSpan(ctx, "blockChain.notifyNewPayload")
	defer span.End()

	payload, err := blk.Body().Execution()
	if err != nil {
		return 0, errors.Wrap(invalidBlock{error: err}, "could not get execution payload")
	}
	if s.cfg.ExecutionEngineCaller == nil {
		return 0, ErrNoExecutionConnection
	}
	status, err := s.cfg.ExecutionEngineCaller.NotifyNewPayload(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if status == nil {
		return 0, errors.Wrap(ErrRequestFailed, "nil payload status")
	}

	switch status.Status {
	case enginev1.PayloadStatus_VALID:
		newPayloadValidNodeCount.Inc()
		return PayloadVerified, nil
	case enginev1.PayloadStatus_SYNCING, enginev1.PayloadStatus_ACCEPTED:
		newPayloadOptimisticNodeCount.Inc()
		log.WithFields(logrus.Fields{
			"slot":             blk.Slot(),
			"payloadBlockHash": fmt.Sprintf("%#x", bytesutil.Trunc(payload.BlockHash())),
			"status":           status.Status.String(),
		}).Info("Called new payload with optimistic block")
		return PayloadOptimistic, nil
	case enginev1.PayloadStatus_INVALID:
		newPayloadInvalidNodeCount.Inc()
		// The block itself never made it into fork choice, so the walk starts at its parent.
		parentRoot := blk.ParentRoot()
		op := forkchoicetypes.InvalidateMany{
			HeadBlockRoot:        parentRoot,
			AlwaysInvalidateHead: false,
			LatestValidAncestor:  bytesutil.ToBytes32(status.LatestValidHash),
		}
		if err := s.cfg.ForkChoiceStore.ProcessInvalidExecutionPayload(ctx, op); err != nil {
			return 0, errors.Wrap(err, "could not process invalid execution payload")
		}
		log.WithFields(logrus.Fields{
			"slot":             blk.Slot(),
			"parentRoot":       fmt.Sprintf("%#x", bytesutil.Trunc(parentRoot[:])),
			"payloadBlockHash": fmt.Sprintf("%#x", bytesutil.Trunc(payload.BlockHash())),
			"latestValidHash":  fmt.Sprintf("%#x", bytesutil.Trunc(status.LatestValidHash)),
		}).Warn("Execution engine rejected payload, invalidated ancestors")
		return 0, invalidBlock{error: &RejectedByExecutionEngineError{Status: status}}
	case enginev1.PayloadStatus_INVALID_BLOCK_HASH, enginev1.PayloadStatus_INVALID_TERMINAL_BLOCK:
		// These statuses say nothing about the parent.
		newPayloadInvalidNodeCount.Inc()
		return 0, invalidBlock{error: &RejectedByExecutionEngineError{Status: status}}
	default:
		return 0, errors.Wrapf(ErrRequestFailed, "unexpected payload status %s", status.Status)
	}
}
