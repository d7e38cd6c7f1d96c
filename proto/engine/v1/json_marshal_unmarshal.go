package enginev1

import (
	"encoding/json"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	fieldparams "github.com/prysmaticlabs/enginebridge/config/fieldparams"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
)

// PayloadIDBytes defines a custom type for Payload IDs used by the engine API
// client with proper JSON Marshal and Unmarshal methods to hex.
type PayloadIDBytes [8]byte

// MarshalJSON --
func (b PayloadIDBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Bytes(b[:]))
}

// UnmarshalJSON --
func (b *PayloadIDBytes) UnmarshalJSON(enc []byte) error {
	var res [8]byte
	if err := hexutil.UnmarshalFixedJSON(reflect.TypeOf(b), enc, res[:]); err != nil {
		return err
	}
	*b = res
	return nil
}

// ExecutionBlock is the response kind received by the eth_getBlockByHash and
// eth_getBlockByNumber endpoints via JSON-RPC. Transactions are always requested as hashes.
type ExecutionBlock struct {
	gethtypes.Header
	Hash            common.Hash `json:"hash"`
	TotalDifficulty string      `json:"totalDifficulty"`
}

// MarshalJSON --
func (e *ExecutionBlock) MarshalJSON() ([]byte, error) {
	decoded := make(map[string]interface{})
	encodedHeader, err := e.Header.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(encodedHeader, &decoded); err != nil {
		return nil, err
	}
	decoded["hash"] = e.Hash.String()
	decoded["totalDifficulty"] = e.TotalDifficulty
	decoded["transactions"] = []string{}
	return json.Marshal(decoded)
}

// UnmarshalJSON --
func (e *ExecutionBlock) UnmarshalJSON(enc []byte) error {
	if err := e.Header.UnmarshalJSON(enc); err != nil {
		return err
	}
	decoded := make(map[string]interface{})
	if err := json.Unmarshal(enc, &decoded); err != nil {
		return err
	}
	blockHashStr, ok := decoded["hash"].(string)
	if !ok {
		return errors.New("expected `hash` field in JSON response")
	}
	decodedHash, err := hexutil.Decode(blockHashStr)
	if err != nil {
		return err
	}
	e.Hash = common.BytesToHash(decodedHash)
	e.TotalDifficulty, ok = decoded["totalDifficulty"].(string)
	if !ok {
		return errors.New("expected `totalDifficulty` field in JSON response")
	}
	return nil
}

type withdrawalJSON struct {
	Index     *hexutil.Uint64 `json:"index"`
	Validator *hexutil.Uint64 `json:"validatorIndex"`
	Address   *common.Address `json:"address"`
	Amount    *hexutil.Uint64 `json:"amount"`
}

// MarshalJSON --
func (w *Withdrawal) MarshalJSON() ([]byte, error) {
	index := hexutil.Uint64(w.Index)
	validatorIndex := hexutil.Uint64(w.ValidatorIndex)
	gwei := hexutil.Uint64(w.Amount)
	address := common.BytesToAddress(w.Address)
	return json.Marshal(withdrawalJSON{
		Index:     &index,
		Validator: &validatorIndex,
		Address:   &address,
		Amount:    &gwei,
	})
}

// UnmarshalJSON --
func (w *Withdrawal) UnmarshalJSON(enc []byte) error {
	dec := withdrawalJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	if dec.Index == nil {
		return errors.New("missing withdrawal index")
	}
	if dec.Validator == nil {
		return errors.New("missing validator index")
	}
	if dec.Amount == nil {
		return errors.New("missing withdrawal amount")
	}
	if dec.Address == nil {
		return errors.New("missing execution address")
	}
	*w = Withdrawal{}
	w.Index = uint64(*dec.Index)
	w.ValidatorIndex = primitives.ValidatorIndex(*dec.Validator)
	w.Amount = uint64(*dec.Amount)
	w.Address = dec.Address.Bytes()
	return nil
}

type executionPayloadJSON struct {
	ParentHash    *common.Hash    `json:"parentHash"`
	FeeRecipient  *common.Address `json:"feeRecipient"`
	StateRoot     *common.Hash    `json:"stateRoot"`
	ReceiptsRoot  *common.Hash    `json:"receiptsRoot"`
	LogsBloom     *hexutil.Bytes  `json:"logsBloom"`
	PrevRandao    *common.Hash    `json:"prevRandao"`
	BlockNumber   *hexutil.Uint64 `json:"blockNumber"`
	GasLimit      *hexutil.Uint64 `json:"gasLimit"`
	GasUsed       *hexutil.Uint64 `json:"gasUsed"`
	Timestamp     *hexutil.Uint64 `json:"timestamp"`
	ExtraData     hexutil.Bytes   `json:"extraData"`
	BaseFeePerGas string          `json:"baseFeePerGas"`
	BlockHash     *common.Hash    `json:"blockHash"`
	Transactions  []hexutil.Bytes `json:"transactions"`
}

type executionPayloadCapellaJSON struct {
	executionPayloadJSON
	Withdrawals []*Withdrawal `json:"withdrawals"`
}

// GetPayloadV2ResponseJson is the engine_getPayloadV2 wire response.
type GetPayloadV2ResponseJson struct {
	ExecutionPayload *executionPayloadCapellaJSON `json:"executionPayload"`
	BlockValue       string                       `json:"blockValue"`
}

func (dec *executionPayloadJSON) validate() error {
	switch {
	case dec.ParentHash == nil:
		return errors.New("missing required field 'parentHash' for ExecutionPayload")
	case dec.FeeRecipient == nil:
		return errors.New("missing required field 'feeRecipient' for ExecutionPayload")
	case dec.StateRoot == nil:
		return errors.New("missing required field 'stateRoot' for ExecutionPayload")
	case dec.ReceiptsRoot == nil:
		return errors.New("missing required field 'receiptsRoot' for ExecutionPayload")
	case dec.LogsBloom == nil:
		return errors.New("missing required field 'logsBloom' for ExecutionPayload")
	case dec.PrevRandao == nil:
		return errors.New("missing required field 'prevRandao' for ExecutionPayload")
	case dec.ExtraData == nil:
		return errors.New("missing required field 'extraData' for ExecutionPayload")
	case dec.BlockHash == nil:
		return errors.New("missing required field 'blockHash' for ExecutionPayload")
	case dec.Transactions == nil:
		return errors.New("missing required field 'transactions' for ExecutionPayload")
	case dec.BlockNumber == nil:
		return errors.New("missing required field 'blockNumber' for ExecutionPayload")
	case dec.Timestamp == nil:
		return errors.New("missing required field 'timestamp' for ExecutionPayload")
	case dec.GasUsed == nil:
		return errors.New("missing required field 'gasUsed' for ExecutionPayload")
	case dec.GasLimit == nil:
		return errors.New("missing required field 'gasLimit' for ExecutionPayload")
	}
	return nil
}

func hexTransactions(txs [][]byte) []hexutil.Bytes {
	transactions := make([]hexutil.Bytes, len(txs))
	for i, tx := range txs {
		transactions[i] = tx
	}
	return transactions
}

func rawTransactions(txs []hexutil.Bytes) [][]byte {
	transactions := make([][]byte, len(txs))
	for i, tx := range txs {
		transactions[i] = tx
	}
	return transactions
}

func decodeBaseFee(s string) ([]byte, error) {
	baseFee, err := hexutil.DecodeBig(s)
	if err != nil {
		return nil, err
	}
	return bytesutil.PadTo(bytesutil.ReverseByteOrder(baseFee.Bytes()), fieldparams.RootLength), nil
}

// MarshalJSON --
func (e *ExecutionPayload) MarshalJSON() ([]byte, error) {
	baseFee := bytesutil.LittleEndianBytesToBigInt(e.BaseFeePerGas)
	pHash := common.BytesToHash(e.ParentHash)
	sRoot := common.BytesToHash(e.StateRoot)
	recRoot := common.BytesToHash(e.ReceiptsRoot)
	prevRan := common.BytesToHash(e.PrevRandao)
	bHash := common.BytesToHash(e.BlockHash)
	blockNum := hexutil.Uint64(e.BlockNumber)
	gasLimit := hexutil.Uint64(e.GasLimit)
	gasUsed := hexutil.Uint64(e.GasUsed)
	timeStamp := hexutil.Uint64(e.Timestamp)
	recipient := common.BytesToAddress(e.FeeRecipient)
	logsBloom := hexutil.Bytes(e.LogsBloom)
	return json.Marshal(executionPayloadJSON{
		ParentHash:    &pHash,
		FeeRecipient:  &recipient,
		StateRoot:     &sRoot,
		ReceiptsRoot:  &recRoot,
		LogsBloom:     &logsBloom,
		PrevRandao:    &prevRan,
		BlockNumber:   &blockNum,
		GasLimit:      &gasLimit,
		GasUsed:       &gasUsed,
		Timestamp:     &timeStamp,
		ExtraData:     e.ExtraData,
		BaseFeePerGas: hexutil.EncodeBig(baseFee),
		BlockHash:     &bHash,
		Transactions:  hexTransactions(e.Transactions),
	})
}

// UnmarshalJSON --
func (e *ExecutionPayload) UnmarshalJSON(enc []byte) error {
	dec := executionPayloadJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	if err := dec.validate(); err != nil {
		return err
	}
	baseFee, err := decodeBaseFee(dec.BaseFeePerGas)
	if err != nil {
		return err
	}
	*e = ExecutionPayload{
		ParentHash:    dec.ParentHash.Bytes(),
		FeeRecipient:  dec.FeeRecipient.Bytes(),
		StateRoot:     dec.StateRoot.Bytes(),
		ReceiptsRoot:  dec.ReceiptsRoot.Bytes(),
		LogsBloom:     *dec.LogsBloom,
		PrevRandao:    dec.PrevRandao.Bytes(),
		BlockNumber:   uint64(*dec.BlockNumber),
		GasLimit:      uint64(*dec.GasLimit),
		GasUsed:       uint64(*dec.GasUsed),
		Timestamp:     uint64(*dec.Timestamp),
		ExtraData:     dec.ExtraData,
		BaseFeePerGas: baseFee,
		BlockHash:     dec.BlockHash.Bytes(),
		Transactions:  rawTransactions(dec.Transactions),
	}
	return nil
}

// MarshalJSON --
func (e *ExecutionPayloadCapella) MarshalJSON() ([]byte, error) {
	baseFee := bytesutil.LittleEndianBytesToBigInt(e.BaseFeePerGas)
	pHash := common.BytesToHash(e.ParentHash)
	sRoot := common.BytesToHash(e.StateRoot)
	recRoot := common.BytesToHash(e.ReceiptsRoot)
	prevRan := common.BytesToHash(e.PrevRandao)
	bHash := common.BytesToHash(e.BlockHash)
	blockNum := hexutil.Uint64(e.BlockNumber)
	gasLimit := hexutil.Uint64(e.GasLimit)
	gasUsed := hexutil.Uint64(e.GasUsed)
	timeStamp := hexutil.Uint64(e.Timestamp)
	recipient := common.BytesToAddress(e.FeeRecipient)
	logsBloom := hexutil.Bytes(e.LogsBloom)
	withdrawals := e.Withdrawals
	if withdrawals == nil {
		withdrawals = make([]*Withdrawal, 0)
	}
	return json.Marshal(executionPayloadCapellaJSON{
		executionPayloadJSON: executionPayloadJSON{
			ParentHash:    &pHash,
			FeeRecipient:  &recipient,
			StateRoot:     &sRoot,
			ReceiptsRoot:  &recRoot,
			LogsBloom:     &logsBloom,
			PrevRandao:    &prevRan,
			BlockNumber:   &blockNum,
			GasLimit:      &gasLimit,
			GasUsed:       &gasUsed,
			Timestamp:     &timeStamp,
			ExtraData:     e.ExtraData,
			BaseFeePerGas: hexutil.EncodeBig(baseFee),
			BlockHash:     &bHash,
			Transactions:  hexTransactions(e.Transactions),
		},
		Withdrawals: withdrawals,
	})
}

// UnmarshalJSON --
func (e *ExecutionPayloadCapella) UnmarshalJSON(enc []byte) error {
	dec := executionPayloadCapellaJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	p, err := dec.toCapella()
	if err != nil {
		return err
	}
	*e = *p
	return nil
}

func (dec *executionPayloadCapellaJSON) toCapella() (*ExecutionPayloadCapella, error) {
	if err := dec.validate(); err != nil {
		return nil, err
	}
	baseFee, err := decodeBaseFee(dec.BaseFeePerGas)
	if err != nil {
		return nil, err
	}
	withdrawals := dec.Withdrawals
	if withdrawals == nil {
		withdrawals = make([]*Withdrawal, 0)
	}
	return &ExecutionPayloadCapella{
		ParentHash:    dec.ParentHash.Bytes(),
		FeeRecipient:  dec.FeeRecipient.Bytes(),
		StateRoot:     dec.StateRoot.Bytes(),
		ReceiptsRoot:  dec.ReceiptsRoot.Bytes(),
		LogsBloom:     *dec.LogsBloom,
		PrevRandao:    dec.PrevRandao.Bytes(),
		BlockNumber:   uint64(*dec.BlockNumber),
		GasLimit:      uint64(*dec.GasLimit),
		GasUsed:       uint64(*dec.GasUsed),
		Timestamp:     uint64(*dec.Timestamp),
		ExtraData:     dec.ExtraData,
		BaseFeePerGas: baseFee,
		BlockHash:     dec.BlockHash.Bytes(),
		Transactions:  rawTransactions(dec.Transactions),
		Withdrawals:   withdrawals,
	}, nil
}

// UnmarshalJSON --
func (e *ExecutionPayloadCapellaWithValue) UnmarshalJSON(enc []byte) error {
	dec := GetPayloadV2ResponseJson{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	if dec.ExecutionPayload == nil {
		return errors.New("missing required field 'executionPayload' for ExecutionPayloadWithValue")
	}
	p, err := dec.ExecutionPayload.toCapella()
	if err != nil {
		return err
	}
	v, err := hexutil.DecodeBig(dec.BlockValue)
	if err != nil {
		return err
	}
	*e = ExecutionPayloadCapellaWithValue{
		Payload: p,
		Value:   bytesutil.PadTo(bytesutil.ReverseByteOrder(v.Bytes()), fieldparams.RootLength),
	}
	return nil
}

type payloadAttributesJSON struct {
	Timestamp             hexutil.Uint64 `json:"timestamp"`
	PrevRandao            hexutil.Bytes  `json:"prevRandao"`
	SuggestedFeeRecipient hexutil.Bytes  `json:"suggestedFeeRecipient"`
}

type payloadAttributesV2JSON struct {
	Timestamp             hexutil.Uint64 `json:"timestamp"`
	PrevRandao            hexutil.Bytes  `json:"prevRandao"`
	SuggestedFeeRecipient hexutil.Bytes  `json:"suggestedFeeRecipient"`
	Withdrawals           []*Withdrawal  `json:"withdrawals"`
}

// MarshalJSON --
func (p *PayloadAttributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(payloadAttributesJSON{
		Timestamp:             hexutil.Uint64(p.Timestamp),
		PrevRandao:            p.PrevRandao,
		SuggestedFeeRecipient: p.SuggestedFeeRecipient,
	})
}

// UnmarshalJSON --
func (p *PayloadAttributes) UnmarshalJSON(enc []byte) error {
	dec := payloadAttributesJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	*p = PayloadAttributes{
		Timestamp:             uint64(dec.Timestamp),
		PrevRandao:            dec.PrevRandao,
		SuggestedFeeRecipient: dec.SuggestedFeeRecipient,
	}
	return nil
}

// MarshalJSON --
func (p *PayloadAttributesV2) MarshalJSON() ([]byte, error) {
	withdrawals := p.Withdrawals
	if withdrawals == nil {
		withdrawals = make([]*Withdrawal, 0)
	}
	return json.Marshal(payloadAttributesV2JSON{
		Timestamp:             hexutil.Uint64(p.Timestamp),
		PrevRandao:            p.PrevRandao,
		SuggestedFeeRecipient: p.SuggestedFeeRecipient,
		Withdrawals:           withdrawals,
	})
}

// UnmarshalJSON --
func (p *PayloadAttributesV2) UnmarshalJSON(enc []byte) error {
	dec := payloadAttributesV2JSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	withdrawals := dec.Withdrawals
	if withdrawals == nil {
		withdrawals = make([]*Withdrawal, 0)
	}
	*p = PayloadAttributesV2{
		Timestamp:             uint64(dec.Timestamp),
		PrevRandao:            dec.PrevRandao,
		SuggestedFeeRecipient: dec.SuggestedFeeRecipient,
		Withdrawals:           withdrawals,
	}
	return nil
}

type payloadStatusJSON struct {
	LatestValidHash *common.Hash `json:"latestValidHash"`
	Status          string       `json:"status"`
	ValidationError *string      `json:"validationError"`
}

// MarshalJSON --
func (p *PayloadStatus) MarshalJSON() ([]byte, error) {
	var latestHash *common.Hash
	if p.LatestValidHash != nil {
		hash := common.Hash(bytesutil.ToBytes32(p.LatestValidHash))
		latestHash = &hash
	}
	return json.Marshal(payloadStatusJSON{
		LatestValidHash: latestHash,
		Status:          p.Status.String(),
		ValidationError: &p.ValidationError,
	})
}

// UnmarshalJSON --
func (p *PayloadStatus) UnmarshalJSON(enc []byte) error {
	dec := payloadStatusJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	*p = PayloadStatus{}
	if dec.LatestValidHash != nil {
		p.LatestValidHash = dec.LatestValidHash[:]
	}
	p.Status = PayloadStatus_Status(PayloadStatus_Status_value[dec.Status])
	if dec.ValidationError != nil {
		p.ValidationError = *dec.ValidationError
	}
	return nil
}

type forkchoiceStateJSON struct {
	HeadBlockHash      hexutil.Bytes `json:"headBlockHash"`
	SafeBlockHash      hexutil.Bytes `json:"safeBlockHash"`
	FinalizedBlockHash hexutil.Bytes `json:"finalizedBlockHash"`
}

// MarshalJSON --
func (f *ForkchoiceState) MarshalJSON() ([]byte, error) {
	return json.Marshal(forkchoiceStateJSON{
		HeadBlockHash:      f.HeadBlockHash,
		SafeBlockHash:      f.SafeBlockHash,
		FinalizedBlockHash: f.FinalizedBlockHash,
	})
}

// UnmarshalJSON --
func (f *ForkchoiceState) UnmarshalJSON(enc []byte) error {
	dec := forkchoiceStateJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	*f = ForkchoiceState{}
	f.HeadBlockHash = dec.HeadBlockHash
	f.SafeBlockHash = dec.SafeBlockHash
	f.FinalizedBlockHash = dec.FinalizedBlockHash
	return nil
}
