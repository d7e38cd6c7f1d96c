package execution

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethRPC "github.com/ethereum/go-ethereum/rpc"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/stretchr/testify/require"
)

type testRPCError struct {
	code int
	msg  string
}

func (e *testRPCError) Error() string  { return e.msg }
func (e *testRPCError) ErrorCode() int { return e.code }

// testEngineAPI serves the engine_ namespace.
type testEngineAPI struct {
	lock           sync.Mutex
	status         *pb.PayloadStatus
	fcuResponse    *pb.ForkchoiceUpdatedResponse
	fcuErr         error
	fcuCalls       int
	lastState      *pb.ForkchoiceState
	lastAttrs      *pb.PayloadAttributes
	lastAttrsV2    *pb.PayloadAttributesV2
	payload        *pb.ExecutionPayload
	payloadCapella *pb.ExecutionPayloadCapella
	getPayloadErr  error
	getPayloadIDs  []pb.PayloadIDBytes
	newPayloadV1   int
	newPayloadV2   int
}

func (api *testEngineAPI) NewPayloadV1(_ context.Context, _ *pb.ExecutionPayload) (*pb.PayloadStatus, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	api.newPayloadV1++
	return api.status, nil
}

func (api *testEngineAPI) NewPayloadV2(_ context.Context, _ *pb.ExecutionPayloadCapella) (*pb.PayloadStatus, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	api.newPayloadV2++
	return api.status, nil
}

func (api *testEngineAPI) ForkchoiceUpdatedV1(_ context.Context, s *pb.ForkchoiceState, a *pb.PayloadAttributes) (*pb.ForkchoiceUpdatedResponse, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	api.fcuCalls++
	api.lastState = s
	api.lastAttrs = a
	return api.fcuResponse, api.fcuErr
}

func (api *testEngineAPI) ForkchoiceUpdatedV2(_ context.Context, s *pb.ForkchoiceState, a *pb.PayloadAttributesV2) (*pb.ForkchoiceUpdatedResponse, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	api.fcuCalls++
	api.lastState = s
	api.lastAttrsV2 = a
	return api.fcuResponse, api.fcuErr
}

func (api *testEngineAPI) GetPayloadV1(_ context.Context, id pb.PayloadIDBytes) (*pb.ExecutionPayload, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	api.getPayloadIDs = append(api.getPayloadIDs, id)
	return api.payload, api.getPayloadErr
}

func (api *testEngineAPI) GetPayloadV2(_ context.Context, id pb.PayloadIDBytes) (map[string]interface{}, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	api.getPayloadIDs = append(api.getPayloadIDs, id)
	if api.getPayloadErr != nil {
		return nil, api.getPayloadErr
	}
	return map[string]interface{}{
		"executionPayload": api.payloadCapella,
		"blockValue":       "0x1",
	}, nil
}

// testEthAPI serves the eth_ namespace.
type testEthAPI struct {
	lock    sync.Mutex
	blocks  map[common.Hash]*pb.ExecutionBlock
	latest  common.Hash
	syncing bool
	err     error
}

func (api *testEthAPI) GetBlockByHash(_ context.Context, h common.Hash, _ bool) (*pb.ExecutionBlock, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	if api.err != nil {
		return nil, api.err
	}
	return api.blocks[h], nil
}

func (api *testEthAPI) GetBlockByNumber(_ context.Context, _ string, _ bool) (*pb.ExecutionBlock, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	if api.err != nil {
		return nil, api.err
	}
	return api.blocks[api.latest], nil
}

func (api *testEthAPI) Syncing() (interface{}, error) {
	api.lock.Lock()
	defer api.lock.Unlock()
	if api.err != nil {
		return nil, api.err
	}
	if api.syncing {
		return map[string]string{"currentBlock": "0x1", "highestBlock": "0x2"}, nil
	}
	return false, nil
}

func (api *testEthAPI) addBlock(b *pb.ExecutionBlock) {
	api.lock.Lock()
	defer api.lock.Unlock()
	if api.blocks == nil {
		api.blocks = make(map[common.Hash]*pb.ExecutionBlock)
	}
	api.blocks[b.Hash] = b
	api.latest = b.Hash
}

func testExecutionBlock(hash, parent common.Hash, number int64, td uint64) *pb.ExecutionBlock {
	return &pb.ExecutionBlock{
		Header: gethtypes.Header{
			ParentHash: parent,
			Difficulty: big.NewInt(1),
			Number:     big.NewInt(number),
			Time:       uint64(number),
		},
		Hash:            hash,
		TotalDifficulty: hexutil.EncodeBig(new(big.Int).SetUint64(td)),
	}
}

// setupTestService starts an in-process rpc server and returns a service connected to it.
func setupTestService(t *testing.T, opts ...Option) (*Service, *testEngineAPI, *testEthAPI) {
	engine := &testEngineAPI{}
	eth := &testEthAPI{}
	server := gethRPC.NewServer()
	require.NoError(t, server.RegisterName("engine", engine))
	require.NoError(t, server.RegisterName("eth", eth))
	client := gethRPC.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	s, err := NewService(context.Background(), append([]Option{WithRPCClient(client)}, opts...)...)
	require.NoError(t, err)
	return s, engine, eth
}
