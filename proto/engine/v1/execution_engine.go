package enginev1

import (
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
)

// ExecutionPayload is the Bellatrix execution payload as carried in a beacon block body.
type ExecutionPayload struct {
	ParentHash    []byte
	FeeRecipient  []byte
	StateRoot     []byte
	ReceiptsRoot  []byte
	LogsBloom     []byte
	PrevRandao    []byte
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	ExtraData     []byte
	BaseFeePerGas []byte // little-endian uint256
	BlockHash     []byte
	Transactions  [][]byte
}

// ExecutionPayloadCapella extends the Bellatrix payload with validator withdrawals.
type ExecutionPayloadCapella struct {
	ParentHash    []byte
	FeeRecipient  []byte
	StateRoot     []byte
	ReceiptsRoot  []byte
	LogsBloom     []byte
	PrevRandao    []byte
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	ExtraData     []byte
	BaseFeePerGas []byte
	BlockHash     []byte
	Transactions  [][]byte
	Withdrawals   []*Withdrawal
}

// ExecutionPayloadCapellaWithValue is the engine_getPayloadV2 response.
type ExecutionPayloadCapellaWithValue struct {
	Payload *ExecutionPayloadCapella
	Value   []byte
}

// Withdrawal is a validator withdrawal processed by the execution layer.
type Withdrawal struct {
	Index          uint64
	ValidatorIndex primitives.ValidatorIndex
	Address        []byte
	Amount         uint64
}

// ExecutionPayloadHeader is the payload summary kept in the beacon state and in blinded blocks.
// TransactionsRoot and WithdrawalsRoot are opaque to this package.
type ExecutionPayloadHeader struct {
	ParentHash       []byte `json:"parent_hash"`
	FeeRecipient     []byte `json:"fee_recipient"`
	StateRoot        []byte `json:"state_root"`
	ReceiptsRoot     []byte `json:"receipts_root"`
	LogsBloom        []byte `json:"logs_bloom"`
	PrevRandao       []byte `json:"prev_randao"`
	BlockNumber      uint64 `json:"block_number"`
	GasLimit         uint64 `json:"gas_limit"`
	GasUsed          uint64 `json:"gas_used"`
	Timestamp        uint64 `json:"timestamp"`
	ExtraData        []byte `json:"extra_data"`
	BaseFeePerGas    []byte `json:"base_fee_per_gas"`
	BlockHash        []byte `json:"block_hash"`
	TransactionsRoot []byte `json:"transactions_root"`
	WithdrawalsRoot  []byte `json:"withdrawals_root,omitempty"`
}

// PayloadStatus_Status enumerates the engine API payload statuses.
type PayloadStatus_Status int32

const (
	PayloadStatus_UNKNOWN                PayloadStatus_Status = 0
	PayloadStatus_VALID                  PayloadStatus_Status = 1
	PayloadStatus_INVALID                PayloadStatus_Status = 2
	PayloadStatus_SYNCING                PayloadStatus_Status = 3
	PayloadStatus_ACCEPTED               PayloadStatus_Status = 4
	PayloadStatus_INVALID_BLOCK_HASH     PayloadStatus_Status = 5
	PayloadStatus_INVALID_TERMINAL_BLOCK PayloadStatus_Status = 6
)

var (
	PayloadStatus_Status_name = map[int32]string{
		0: "UNKNOWN",
		1: "VALID",
		2: "INVALID",
		3: "SYNCING",
		4: "ACCEPTED",
		5: "INVALID_BLOCK_HASH",
		6: "INVALID_TERMINAL_BLOCK",
	}
	PayloadStatus_Status_value = map[string]int32{
		"UNKNOWN":                0,
		"VALID":                  1,
		"INVALID":                2,
		"SYNCING":                3,
		"ACCEPTED":               4,
		"INVALID_BLOCK_HASH":     5,
		"INVALID_TERMINAL_BLOCK": 6,
	}
)

func (x PayloadStatus_Status) String() string {
	name, ok := PayloadStatus_Status_name[int32(x)]
	if !ok {
		return "UNKNOWN"
	}
	return name
}

// PayloadStatus is the engine API PayloadStatusV1 object.
type PayloadStatus struct {
	Status          PayloadStatus_Status
	LatestValidHash []byte
	ValidationError string
}

// ForkchoiceState is the engine API ForkchoiceStateV1 object.
type ForkchoiceState struct {
	HeadBlockHash      []byte
	SafeBlockHash      []byte
	FinalizedBlockHash []byte
}

// PayloadAttributes is the engine API PayloadAttributesV1 object.
type PayloadAttributes struct {
	Timestamp             uint64
	PrevRandao            []byte
	SuggestedFeeRecipient []byte
}

// PayloadAttributesV2 is the engine API PayloadAttributesV2 object.
type PayloadAttributesV2 struct {
	Timestamp             uint64
	PrevRandao            []byte
	SuggestedFeeRecipient []byte
	Withdrawals           []*Withdrawal
}

// ForkchoiceUpdatedResponse is the response kind received by the
// engine_forkchoiceUpdatedV1 and V2 endpoints.
type ForkchoiceUpdatedResponse struct {
	Status    *PayloadStatus  `json:"payloadStatus"`
	PayloadId *PayloadIDBytes `json:"payloadId"`
}

// Copy --
func (e *ExecutionPayload) Copy() *ExecutionPayload {
	if e == nil {
		return nil
	}
	return &ExecutionPayload{
		ParentHash:    bytesutil.SafeCopyBytes(e.ParentHash),
		FeeRecipient:  bytesutil.SafeCopyBytes(e.FeeRecipient),
		StateRoot:     bytesutil.SafeCopyBytes(e.StateRoot),
		ReceiptsRoot:  bytesutil.SafeCopyBytes(e.ReceiptsRoot),
		LogsBloom:     bytesutil.SafeCopyBytes(e.LogsBloom),
		PrevRandao:    bytesutil.SafeCopyBytes(e.PrevRandao),
		BlockNumber:   e.BlockNumber,
		GasLimit:      e.GasLimit,
		GasUsed:       e.GasUsed,
		Timestamp:     e.Timestamp,
		ExtraData:     bytesutil.SafeCopyBytes(e.ExtraData),
		BaseFeePerGas: bytesutil.SafeCopyBytes(e.BaseFeePerGas),
		BlockHash:     bytesutil.SafeCopyBytes(e.BlockHash),
		Transactions:  copy2dBytes(e.Transactions),
	}
}

// Copy --
func (e *ExecutionPayloadCapella) Copy() *ExecutionPayloadCapella {
	if e == nil {
		return nil
	}
	var ws []*Withdrawal
	if e.Withdrawals != nil {
		ws = make([]*Withdrawal, len(e.Withdrawals))
		for i, w := range e.Withdrawals {
			ws[i] = w.Copy()
		}
	}
	return &ExecutionPayloadCapella{
		ParentHash:    bytesutil.SafeCopyBytes(e.ParentHash),
		FeeRecipient:  bytesutil.SafeCopyBytes(e.FeeRecipient),
		StateRoot:     bytesutil.SafeCopyBytes(e.StateRoot),
		ReceiptsRoot:  bytesutil.SafeCopyBytes(e.ReceiptsRoot),
		LogsBloom:     bytesutil.SafeCopyBytes(e.LogsBloom),
		PrevRandao:    bytesutil.SafeCopyBytes(e.PrevRandao),
		BlockNumber:   e.BlockNumber,
		GasLimit:      e.GasLimit,
		GasUsed:       e.GasUsed,
		Timestamp:     e.Timestamp,
		ExtraData:     bytesutil.SafeCopyBytes(e.ExtraData),
		BaseFeePerGas: bytesutil.SafeCopyBytes(e.BaseFeePerGas),
		BlockHash:     bytesutil.SafeCopyBytes(e.BlockHash),
		Transactions:  copy2dBytes(e.Transactions),
		Withdrawals:   ws,
	}
}

// Copy --
func (w *Withdrawal) Copy() *Withdrawal {
	if w == nil {
		return nil
	}
	return &Withdrawal{
		Index:          w.Index,
		ValidatorIndex: w.ValidatorIndex,
		Address:        bytesutil.SafeCopyBytes(w.Address),
		Amount:         w.Amount,
	}
}

// Copy --
func (h *ExecutionPayloadHeader) Copy() *ExecutionPayloadHeader {
	if h == nil {
		return nil
	}
	return &ExecutionPayloadHeader{
		ParentHash:       bytesutil.SafeCopyBytes(h.ParentHash),
		FeeRecipient:     bytesutil.SafeCopyBytes(h.FeeRecipient),
		StateRoot:        bytesutil.SafeCopyBytes(h.StateRoot),
		ReceiptsRoot:     bytesutil.SafeCopyBytes(h.ReceiptsRoot),
		LogsBloom:        bytesutil.SafeCopyBytes(h.LogsBloom),
		PrevRandao:       bytesutil.SafeCopyBytes(h.PrevRandao),
		BlockNumber:      h.BlockNumber,
		GasLimit:         h.GasLimit,
		GasUsed:          h.GasUsed,
		Timestamp:        h.Timestamp,
		ExtraData:        bytesutil.SafeCopyBytes(h.ExtraData),
		BaseFeePerGas:    bytesutil.SafeCopyBytes(h.BaseFeePerGas),
		BlockHash:        bytesutil.SafeCopyBytes(h.BlockHash),
		TransactionsRoot: bytesutil.SafeCopyBytes(h.TransactionsRoot),
		WithdrawalsRoot:  bytesutil.SafeCopyBytes(h.WithdrawalsRoot),
	}
}

func copy2dBytes(ary [][]byte) [][]byte {
	if ary == nil {
		return nil
	}
	cp := make([][]byte, len(ary))
	for i := range ary {
		cp[i] = bytesutil.SafeCopyBytes(ary[i])
	}
	return cp
}
