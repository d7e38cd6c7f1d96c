package execution

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db/kv"
	"github.com/prysmaticlabs/enginebridge/config/params"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// NotifyNewPayload hands a payload to the execution client for verification and returns its verdict.
func (s *Service) NotifyNewPayload(ctx context.Context, payload interfaces.ExecutionData) (*pb.PayloadStatus, error) {
	ctx, span := trace.StartSpan(ctx, "execution.NotifyNewPayload")
	defer span.End()
	status, err := s.NewPayload(ctx, payload)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"blockHash": fmt.Sprintf("%#x", bytesutil.Trunc(payload.BlockHash())),
		"status":    status.Status.String(),
	}).Debug("Execution client verified payload")
	return status, nil
}

// GetPayload asks the execution client to build a payload on top of parentHash and returns it. A
// payload id already handed out for the same attributes is reused instead of starting a new build.
func (s *Service) GetPayload(
	ctx context.Context,
	v int,
	parentHash [32]byte,
	timestamp uint64,
	prevRandao [32]byte,
	finalizedHash [32]byte,
	proposerIndex primitives.ValidatorIndex,
) (interfaces.ExecutionData, error) {
	ctx, span := trace.StartSpan(ctx, "execution.GetPayload")
	defer span.End()

	if v < version.Bellatrix {
		return nil, errors.Wrapf(ErrUnsupportedPayloadVersion, "version %s", version.String(v))
	}
	feeRecipient, err := s.feeRecipientForProposer(ctx, proposerIndex)
	if err != nil {
		return nil, err
	}
	key := payloadIDCacheKey{
		version:      v,
		parentHash:   parentHash,
		timestamp:    timestamp,
		prevRandao:   prevRandao,
		feeRecipient: feeRecipient,
	}
	payloadID, ok := s.payloadIDCache.Get(key)
	if ok {
		payloadIDCacheHits.Inc()
	} else {
		payloadIDCacheMisses.Inc()
		payloadID, err = s.startPayloadBuild(ctx, v, parentHash, timestamp, prevRandao, finalizedHash, feeRecipient)
		if err != nil {
			return nil, err
		}
		s.payloadIDCache.Add(key, payloadID)
	}

	payload, err := s.GetPayloadByID(ctx, payloadID, v)
	if err != nil {
		// The build may have been evicted by the execution client, the next request starts a fresh one.
		s.payloadIDCache.Remove(key)
		return nil, errors.Wrap(err, "could not get payload from execution client")
	}
	if !bytes.Equal(payload.ParentHash(), parentHash[:]) || payload.Timestamp() != timestamp {
		return nil, errors.Wrapf(
			ErrPayloadMismatch,
			"got parent %#x at %d, wanted parent %#x at %d",
			payload.ParentHash(), payload.Timestamp(), parentHash, timestamp,
		)
	}
	log.WithFields(logrus.Fields{
		"blockHash":     fmt.Sprintf("%#x", bytesutil.Trunc(payload.BlockHash())),
		"parentHash":    fmt.Sprintf("%#x", bytesutil.Trunc(parentHash[:])),
		"payloadID":     fmt.Sprintf("%#x", payloadID),
		"proposerIndex": proposerIndex,
		"txCount":       txCount(payload),
	}).Debug("Received execution payload from execution client")
	return payload, nil
}

func (s *Service) startPayloadBuild(
	ctx context.Context,
	v int,
	parentHash [32]byte,
	timestamp uint64,
	prevRandao [32]byte,
	finalizedHash [32]byte,
	feeRecipient [20]byte,
) (pb.PayloadIDBytes, error) {
	fcs := &pb.ForkchoiceState{
		HeadBlockHash:      parentHash[:],
		SafeBlockHash:      finalizedHash[:],
		FinalizedBlockHash: finalizedHash[:],
	}
	var attrs interface{}
	switch v {
	case version.Bellatrix:
		attrs = &pb.PayloadAttributes{
			Timestamp:             timestamp,
			PrevRandao:            prevRandao[:],
			SuggestedFeeRecipient: feeRecipient[:],
		}
	default:
		attrs = &pb.PayloadAttributesV2{
			Timestamp:             timestamp,
			PrevRandao:            prevRandao[:],
			SuggestedFeeRecipient: feeRecipient[:],
			Withdrawals:           []*pb.Withdrawal{},
		}
	}
	payloadID, status, err := s.ForkchoiceUpdated(ctx, fcs, attrs)
	if err != nil {
		return pb.PayloadIDBytes{}, errors.Wrap(err, "could not start payload build")
	}
	if status.Status == pb.PayloadStatus_INVALID {
		return pb.PayloadIDBytes{}, errors.Wrapf(ErrNoPayloadID, "parent %#x is invalid: %s", parentHash, status.ValidationError)
	}
	if payloadID == nil {
		return pb.PayloadIDBytes{}, errors.Wrapf(ErrNoPayloadID, "forkchoice status %s", status.Status)
	}
	return *payloadID, nil
}

// feeRecipientForProposer resolves the proposer's fee recipient: a builder registration wins over a
// stored fee recipient, which wins over the configured default.
func (s *Service) feeRecipientForProposer(ctx context.Context, idx primitives.ValidatorIndex) ([20]byte, error) {
	if s.cfg.beaconDB != nil {
		reg, err := s.cfg.beaconDB.RegistrationByValidatorID(ctx, idx)
		switch {
		case err == nil:
			return bytesutil.ToBytes20(reg.FeeRecipient), nil
		case !errors.Is(err, kv.ErrNotFoundRegistration):
			return [20]byte{}, errors.Wrap(err, "could not get validator registration")
		}
		recipient, err := s.cfg.beaconDB.FeeRecipientByValidatorID(ctx, idx)
		switch {
		case err == nil:
			return recipient, nil
		case !errors.Is(err, kv.ErrNotFoundFeeRecipient):
			return [20]byte{}, errors.Wrap(err, "could not get fee recipient")
		}
	}
	recipient := params.BeaconConfig().DefaultFeeRecipient
	if recipient == common.HexToAddress(params.BeaconConfig().EthBurnAddressHex) {
		burnAddressFeeRecipientCount.Inc()
		log.WithField("validatorIndex", idx).Warn("Fee recipient is currently using the burn address, " +
			"you will not be rewarded transaction fees on this setting. " +
			"Please set a different eth address as the fee recipient")
	}
	return recipient, nil
}

func txCount(payload interfaces.ExecutionData) int {
	txs, err := payload.Transactions()
	if err != nil {
		return 0
	}
	return len(txs)
}
