package execution

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethRPC "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"go.opencensus.io/trace"
)

const (
	// NewPayloadMethod v1 request string for JSON-RPC.
	NewPayloadMethod = "engine_newPayloadV1"
	// NewPayloadMethodV2 v2 request string for JSON-RPC.
	NewPayloadMethodV2 = "engine_newPayloadV2"
	// ForkchoiceUpdatedMethod v1 request string for JSON-RPC.
	ForkchoiceUpdatedMethod = "engine_forkchoiceUpdatedV1"
	// ForkchoiceUpdatedMethodV2 v2 request string for JSON-RPC.
	ForkchoiceUpdatedMethodV2 = "engine_forkchoiceUpdatedV2"
	// GetPayloadMethod v1 request string for JSON-RPC.
	GetPayloadMethod = "engine_getPayloadV1"
	// GetPayloadMethodV2 v2 request string for JSON-RPC.
	GetPayloadMethodV2 = "engine_getPayloadV2"
	// ExecutionBlockByHashMethod request string for JSON-RPC.
	ExecutionBlockByHashMethod = "eth_getBlockByHash"
	// ExecutionBlockByNumberMethod request string for JSON-RPC.
	ExecutionBlockByNumberMethod = "eth_getBlockByNumber"
	// SyncingMethod request string for JSON-RPC.
	SyncingMethod = "eth_syncing"
	// Defines the seconds before timing out engine endpoints with non-block execution semantics.
	defaultEngineTimeout = time.Second
)

// RPCClient defines the rpc methods required to interact with the eth1 node.
type RPCClient interface {
	Close()
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// EngineCaller defines a client that can interact with an Ethereum
// execution node's engine service via JSON-RPC.
type EngineCaller interface {
	NewPayload(ctx context.Context, payload interfaces.ExecutionData) (*pb.PayloadStatus, error)
	ForkchoiceUpdated(ctx context.Context, state *pb.ForkchoiceState, attrs interface{}) (*pb.PayloadIDBytes, *pb.PayloadStatus, error)
	GetPayloadByID(ctx context.Context, payloadID pb.PayloadIDBytes, v int) (interfaces.ExecutionData, error)
	ExecutionBlockByHash(ctx context.Context, hash common.Hash) (*pb.ExecutionBlock, error)
	LatestExecutionBlock(ctx context.Context) (*pb.ExecutionBlock, error)
	IsSyncing(ctx context.Context) (bool, error)
}

var _ = EngineCaller(&Service{})

// NewPayload calls the engine_newPayloadVX method via JSON-RPC and returns the status reported by the
// execution client. Only transport and decoding failures are returned as errors.
func (s *Service) NewPayload(ctx context.Context, payload interfaces.ExecutionData) (*pb.PayloadStatus, error) {
	ctx, span := trace.StartSpan(ctx, "execution.NewPayload")
	defer span.End()
	start := time.Now()
	defer func() {
		newPayloadLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()
	if s.rpcClient == nil {
		return nil, ErrNoExecutionClient
	}
	if payload == nil || payload.IsNil() {
		return nil, errors.Wrap(ErrNilResponse, "nil execution payload")
	}

	d := time.Now().Add(time.Duration(s.cfg.executionEngineTimeout) * time.Second)
	ctx, cancel := context.WithDeadline(ctx, d)
	defer cancel()
	result := &pb.PayloadStatus{}

	switch payload.Proto().(type) {
	case *pb.ExecutionPayload:
		err := s.rpcClient.CallContext(ctx, result, NewPayloadMethod, payload.Proto())
		if err != nil {
			return nil, handleRPCError(err)
		}
	case *pb.ExecutionPayloadCapella:
		err := s.rpcClient.CallContext(ctx, result, NewPayloadMethodV2, payload.Proto())
		if err != nil {
			return nil, handleRPCError(err)
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedPayloadVersion, "%T", payload.Proto())
	}

	switch result.Status {
	case pb.PayloadStatus_VALID, pb.PayloadStatus_INVALID, pb.PayloadStatus_SYNCING, pb.PayloadStatus_ACCEPTED,
		pb.PayloadStatus_INVALID_BLOCK_HASH, pb.PayloadStatus_INVALID_TERMINAL_BLOCK:
		return result, nil
	default:
		return nil, ErrUnknownPayloadStatus
	}
}

// ForkchoiceUpdated calls the engine_forkchoiceUpdatedVX method via JSON-RPC. The version is picked from
// the attributes type; nil attributes use V1 and start no payload build.
func (s *Service) ForkchoiceUpdated(
	ctx context.Context, state *pb.ForkchoiceState, attrs interface{},
) (*pb.PayloadIDBytes, *pb.PayloadStatus, error) {
	ctx, span := trace.StartSpan(ctx, "execution.ForkchoiceUpdated")
	defer span.End()
	start := time.Now()
	defer func() {
		forkchoiceUpdatedLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()
	if s.rpcClient == nil {
		return nil, nil, ErrNoExecutionClient
	}

	d := time.Now().Add(time.Duration(s.cfg.executionEngineTimeout) * time.Second)
	ctx, cancel := context.WithDeadline(ctx, d)
	defer cancel()
	result := &pb.ForkchoiceUpdatedResponse{}

	method := ForkchoiceUpdatedMethod
	switch attrs.(type) {
	case nil, *pb.PayloadAttributes:
	case *pb.PayloadAttributesV2:
		method = ForkchoiceUpdatedMethodV2
	default:
		return nil, nil, errors.Errorf("unknown payload attributes type %T", attrs)
	}
	if err := s.rpcClient.CallContext(ctx, result, method, state, attrs); err != nil {
		return nil, nil, handleRPCError(err)
	}
	if result.Status == nil {
		return nil, nil, ErrNilResponse
	}
	switch result.Status.Status {
	case pb.PayloadStatus_VALID, pb.PayloadStatus_INVALID, pb.PayloadStatus_SYNCING:
		return result.PayloadId, result.Status, nil
	default:
		return nil, nil, ErrUnknownPayloadStatus
	}
}

// GetPayloadByID calls the engine_getPayloadVX method via JSON-RPC for the fork version v.
func (s *Service) GetPayloadByID(ctx context.Context, payloadID pb.PayloadIDBytes, v int) (interfaces.ExecutionData, error) {
	ctx, span := trace.StartSpan(ctx, "execution.GetPayloadByID")
	defer span.End()
	start := time.Now()
	defer func() {
		getPayloadLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()
	if s.rpcClient == nil {
		return nil, ErrNoExecutionClient
	}

	d := time.Now().Add(defaultEngineTimeout)
	ctx, cancel := context.WithDeadline(ctx, d)
	defer cancel()

	switch v {
	case version.Bellatrix:
		result := &pb.ExecutionPayload{}
		if err := s.rpcClient.CallContext(ctx, result, GetPayloadMethod, payloadID); err != nil {
			return nil, handleRPCError(err)
		}
		return blocks.WrappedExecutionPayload(result)
	case version.Capella:
		result := &pb.ExecutionPayloadCapellaWithValue{}
		if err := s.rpcClient.CallContext(ctx, result, GetPayloadMethodV2, payloadID); err != nil {
			return nil, handleRPCError(err)
		}
		return blocks.WrappedExecutionPayloadCapella(result.Payload)
	default:
		return nil, errors.Wrapf(ErrUnsupportedPayloadVersion, "version %s", version.String(v))
	}
}

// LatestExecutionBlock fetches the latest execution engine block by calling
// eth_blockByNumber via JSON-RPC.
func (s *Service) LatestExecutionBlock(ctx context.Context) (*pb.ExecutionBlock, error) {
	ctx, span := trace.StartSpan(ctx, "execution.LatestExecutionBlock")
	defer span.End()
	if s.rpcClient == nil {
		return nil, ErrNoExecutionClient
	}

	var result *pb.ExecutionBlock
	err := s.rpcClient.CallContext(
		ctx,
		&result,
		ExecutionBlockByNumberMethod,
		"latest",
		false, /* no full transaction objects */
	)
	if err != nil {
		return nil, handleRPCError(err)
	}
	if result == nil {
		return nil, ErrNilResponse
	}
	return result, nil
}

// ExecutionBlockByHash fetches an execution engine block by hash by calling
// eth_blockByHash via JSON-RPC. ethereum.NotFound is returned when the client does not know the block.
func (s *Service) ExecutionBlockByHash(ctx context.Context, hash common.Hash) (*pb.ExecutionBlock, error) {
	ctx, span := trace.StartSpan(ctx, "execution.ExecutionBlockByHash")
	defer span.End()
	if s.rpcClient == nil {
		return nil, ErrNoExecutionClient
	}

	var result *pb.ExecutionBlock
	err := s.rpcClient.CallContext(ctx, &result, ExecutionBlockByHashMethod, hash, false /* no txs */)
	if err != nil {
		return nil, handleRPCError(err)
	}
	if result == nil {
		return nil, ethereum.NotFound
	}
	return result, nil
}

// IsSyncing reports whether the execution client is still syncing, using eth_syncing.
func (s *Service) IsSyncing(ctx context.Context) (bool, error) {
	ctx, span := trace.StartSpan(ctx, "execution.IsSyncing")
	defer span.End()
	if s.rpcClient == nil {
		return false, ErrNoExecutionClient
	}

	ctx, cancel := context.WithTimeout(ctx, defaultEngineTimeout)
	defer cancel()
	var result interface{}
	if err := s.rpcClient.CallContext(ctx, &result, SyncingMethod); err != nil {
		return false, handleRPCError(err)
	}
	// eth_syncing returns false once synced and a progress object otherwise.
	synced, ok := result.(bool)
	return !ok || synced, nil
}

// Handles errors received from the RPC server according to the specification.
func handleRPCError(err error) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return ErrHTTPTimeout
	}
	e, ok := err.(gethRPC.Error)
	if !ok {
		if strings.Contains(err.Error(), "401 Unauthorized") {
			log.Error("HTTP authentication to your execution client is not working. Please ensure " +
				"you are setting a correct value for the --jwt-secret flag, or use an IPC connection if on " +
				"the same machine.")
		}
		return errors.Wrapf(err, "got an unexpected error in JSON-RPC response")
	}
	switch e.ErrorCode() {
	case -32700:
		errParseCount.Inc()
		return ErrParse
	case -32600:
		errInvalidRequestCount.Inc()
		return ErrInvalidRequest
	case -32601:
		errMethodNotFoundCount.Inc()
		return ErrMethodNotFound
	case -32602:
		errInvalidParamsCount.Inc()
		return ErrInvalidParams
	case -32603:
		errInternalCount.Inc()
		return ErrInternal
	case -38001:
		errUnknownPayloadCount.Inc()
		return ErrUnknownPayload
	case -38002:
		errInvalidForkchoiceStateCount.Inc()
		return ErrInvalidForkchoiceState
	case -38003:
		errInvalidPayloadAttributesCount.Inc()
		return ErrInvalidPayloadAttributes
	case -32000:
		errServerErrorCount.Inc()
		// Only -32000 status codes are data errors in the RPC specification.
		errWithData, ok := err.(gethRPC.DataError)
		if !ok {
			return errors.Wrapf(err, "got an unexpected error in JSON-RPC response")
		}
		return errors.Wrapf(ErrServer, "%v", errWithData.Error())
	default:
		return err
	}
}

type httpTimeoutError interface {
	Error() string
	Timeout() bool
}

func isTimeout(e error) bool {
	if errors.Is(e, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(e, &urlErr) {
		t, ok := urlErr.Err.(httpTimeoutError)
		return ok && t.Timeout()
	}
	t, ok := e.(httpTimeoutError)
	return ok && t.Timeout()
}
