package blocks

import (
	"bytes"

	"github.com/pkg/errors"
	fieldparams "github.com/prysmaticlabs/enginebridge/config/fieldparams"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/encoding/ssz"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

// executionPayload is a convenience wrapper around a beacon block body's execution payload data structure
// This wrapper allows us to conform to a common interface so that beacon
// blocks for future forks can also be applied across the codebase without issues.
type executionPayload struct {
	p *enginev1.ExecutionPayload
}

// WrappedExecutionPayload is a constructor which wraps a Bellatrix execution payload into an interface.
func WrappedExecutionPayload(p *enginev1.ExecutionPayload) (interfaces.ExecutionData, error) {
	w := executionPayload{p: p}
	if w.IsNil() {
		return nil, ErrNilObjectWrapped
	}
	return w, nil
}

// IsNil checks if the underlying data is nil.
func (e executionPayload) IsNil() bool {
	return e.p == nil
}

// IsBlinded returns true if the underlying data is a header.
func (executionPayload) IsBlinded() bool {
	return false
}

// Version --
func (executionPayload) Version() int {
	return version.Bellatrix
}

// Proto --
func (e executionPayload) Proto() interface{} {
	return e.p
}

// ParentHash --
func (e executionPayload) ParentHash() []byte {
	return e.p.ParentHash
}

// FeeRecipient --
func (e executionPayload) FeeRecipient() []byte {
	return e.p.FeeRecipient
}

// StateRoot --
func (e executionPayload) StateRoot() []byte {
	return e.p.StateRoot
}

// ReceiptsRoot --
func (e executionPayload) ReceiptsRoot() []byte {
	return e.p.ReceiptsRoot
}

// LogsBloom --
func (e executionPayload) LogsBloom() []byte {
	return e.p.LogsBloom
}

// PrevRandao --
func (e executionPayload) PrevRandao() []byte {
	return e.p.PrevRandao
}

// BlockNumber --
func (e executionPayload) BlockNumber() uint64 {
	return e.p.BlockNumber
}

// GasLimit --
func (e executionPayload) GasLimit() uint64 {
	return e.p.GasLimit
}

// GasUsed --
func (e executionPayload) GasUsed() uint64 {
	return e.p.GasUsed
}

// Timestamp --
func (e executionPayload) Timestamp() uint64 {
	return e.p.Timestamp
}

// ExtraData --
func (e executionPayload) ExtraData() []byte {
	return e.p.ExtraData
}

// BaseFeePerGas --
func (e executionPayload) BaseFeePerGas() []byte {
	return e.p.BaseFeePerGas
}

// BlockHash --
func (e executionPayload) BlockHash() []byte {
	return e.p.BlockHash
}

// Transactions --
func (e executionPayload) Transactions() ([][]byte, error) {
	return e.p.Transactions, nil
}

// TransactionsRoot --
func (e executionPayload) TransactionsRoot() ([]byte, error) {
	r, err := ssz.TransactionsRoot(e.p.Transactions)
	if err != nil {
		return nil, err
	}
	return r[:], nil
}

// Withdrawals --
func (executionPayload) Withdrawals() ([]*enginev1.Withdrawal, error) {
	return nil, errNotSupported("Withdrawals", version.Bellatrix)
}

// WithdrawalsRoot --
func (executionPayload) WithdrawalsRoot() ([]byte, error) {
	return nil, errNotSupported("WithdrawalsRoot", version.Bellatrix)
}

// executionPayloadCapella is a convenience wrapper around a beacon block body's execution payload data structure
// This wrapper allows us to conform to a common interface so that beacon
// blocks for future forks can also be applied across the codebase without issues.
type executionPayloadCapella struct {
	p *enginev1.ExecutionPayloadCapella
}

// WrappedExecutionPayloadCapella is a constructor which wraps a Capella execution payload into an interface.
func WrappedExecutionPayloadCapella(p *enginev1.ExecutionPayloadCapella) (interfaces.ExecutionData, error) {
	w := executionPayloadCapella{p: p}
	if w.IsNil() {
		return nil, ErrNilObjectWrapped
	}
	return w, nil
}

// IsNil checks if the underlying data is nil.
func (e executionPayloadCapella) IsNil() bool {
	return e.p == nil
}

// IsBlinded returns true if the underlying data is a header.
func (executionPayloadCapella) IsBlinded() bool {
	return false
}

// Version --
func (executionPayloadCapella) Version() int {
	return version.Capella
}

// Proto --
func (e executionPayloadCapella) Proto() interface{} {
	return e.p
}

// ParentHash --
func (e executionPayloadCapella) ParentHash() []byte {
	return e.p.ParentHash
}

// FeeRecipient --
func (e executionPayloadCapella) FeeRecipient() []byte {
	return e.p.FeeRecipient
}

// StateRoot --
func (e executionPayloadCapella) StateRoot() []byte {
	return e.p.StateRoot
}

// ReceiptsRoot --
func (e executionPayloadCapella) ReceiptsRoot() []byte {
	return e.p.ReceiptsRoot
}

// LogsBloom --
func (e executionPayloadCapella) LogsBloom() []byte {
	return e.p.LogsBloom
}

// PrevRandao --
func (e executionPayloadCapella) PrevRandao() []byte {
	return e.p.PrevRandao
}

// BlockNumber --
func (e executionPayloadCapella) BlockNumber() uint64 {
	return e.p.BlockNumber
}

// GasLimit --
func (e executionPayloadCapella) GasLimit() uint64 {
	return e.p.GasLimit
}

// GasUsed --
func (e executionPayloadCapella) GasUsed() uint64 {
	return e.p.GasUsed
}

// Timestamp --
func (e executionPayloadCapella) Timestamp() uint64 {
	return e.p.Timestamp
}

// ExtraData --
func (e executionPayloadCapella) ExtraData() []byte {
	return e.p.ExtraData
}

// BaseFeePerGas --
func (e executionPayloadCapella) BaseFeePerGas() []byte {
	return e.p.BaseFeePerGas
}

// BlockHash --
func (e executionPayloadCapella) BlockHash() []byte {
	return e.p.BlockHash
}

// Transactions --
func (e executionPayloadCapella) Transactions() ([][]byte, error) {
	return e.p.Transactions, nil
}

// TransactionsRoot --
func (e executionPayloadCapella) TransactionsRoot() ([]byte, error) {
	r, err := ssz.TransactionsRoot(e.p.Transactions)
	if err != nil {
		return nil, err
	}
	return r[:], nil
}

// Withdrawals --
func (e executionPayloadCapella) Withdrawals() ([]*enginev1.Withdrawal, error) {
	return e.p.Withdrawals, nil
}

// WithdrawalsRoot --
func (e executionPayloadCapella) WithdrawalsRoot() ([]byte, error) {
	r, err := ssz.WithdrawalSliceRoot(e.p.Withdrawals, fieldparams.MaxWithdrawalsPerPayload)
	if err != nil {
		return nil, err
	}
	return r[:], nil
}

// executionPayloadHeader is a convenience wrapper around an execution payload header data structure.
// The header stands in for the payload in blinded blocks and in the beacon state.
type executionPayloadHeader struct {
	p       *enginev1.ExecutionPayloadHeader
	version int
}

// WrappedExecutionPayloadHeader is a constructor which wraps an execution payload header of the given
// fork into an interface.
func WrappedExecutionPayloadHeader(p *enginev1.ExecutionPayloadHeader, v int) (interfaces.ExecutionData, error) {
	if v < version.Bellatrix {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "execution payload header for %s", version.String(v))
	}
	w := executionPayloadHeader{p: p, version: v}
	if w.IsNil() {
		return nil, ErrNilObjectWrapped
	}
	return w, nil
}

// IsNil checks if the underlying data is nil.
func (e executionPayloadHeader) IsNil() bool {
	return e.p == nil
}

// IsBlinded returns true if the underlying data is a header.
func (executionPayloadHeader) IsBlinded() bool {
	return true
}

// Version --
func (e executionPayloadHeader) Version() int {
	return e.version
}

// Proto --
func (e executionPayloadHeader) Proto() interface{} {
	return e.p
}

// ParentHash --
func (e executionPayloadHeader) ParentHash() []byte {
	return e.p.ParentHash
}

// FeeRecipient --
func (e executionPayloadHeader) FeeRecipient() []byte {
	return e.p.FeeRecipient
}

// StateRoot --
func (e executionPayloadHeader) StateRoot() []byte {
	return e.p.StateRoot
}

// ReceiptsRoot --
func (e executionPayloadHeader) ReceiptsRoot() []byte {
	return e.p.ReceiptsRoot
}

// LogsBloom --
func (e executionPayloadHeader) LogsBloom() []byte {
	return e.p.LogsBloom
}

// PrevRandao --
func (e executionPayloadHeader) PrevRandao() []byte {
	return e.p.PrevRandao
}

// BlockNumber --
func (e executionPayloadHeader) BlockNumber() uint64 {
	return e.p.BlockNumber
}

// GasLimit --
func (e executionPayloadHeader) GasLimit() uint64 {
	return e.p.GasLimit
}

// GasUsed --
func (e executionPayloadHeader) GasUsed() uint64 {
	return e.p.GasUsed
}

// Timestamp --
func (e executionPayloadHeader) Timestamp() uint64 {
	return e.p.Timestamp
}

// ExtraData --
func (e executionPayloadHeader) ExtraData() []byte {
	return e.p.ExtraData
}

// BaseFeePerGas --
func (e executionPayloadHeader) BaseFeePerGas() []byte {
	return e.p.BaseFeePerGas
}

// BlockHash --
func (e executionPayloadHeader) BlockHash() []byte {
	return e.p.BlockHash
}

// Transactions --
func (e executionPayloadHeader) Transactions() ([][]byte, error) {
	return nil, errNotSupported("Transactions", e.version)
}

// TransactionsRoot --
func (e executionPayloadHeader) TransactionsRoot() ([]byte, error) {
	return e.p.TransactionsRoot, nil
}

// Withdrawals --
func (e executionPayloadHeader) Withdrawals() ([]*enginev1.Withdrawal, error) {
	return nil, errNotSupported("Withdrawals", e.version)
}

// WithdrawalsRoot --
func (e executionPayloadHeader) WithdrawalsRoot() ([]byte, error) {
	if e.version < version.Capella {
		return nil, errNotSupported("WithdrawalsRoot", e.version)
	}
	return e.p.WithdrawalsRoot, nil
}

// PayloadToHeader converts `payload` into execution payload header format.
func PayloadToHeader(payload interfaces.ExecutionData) (*enginev1.ExecutionPayloadHeader, error) {
	if payload == nil || payload.IsNil() {
		return nil, ErrNilObject
	}
	txRoot, err := payload.TransactionsRoot()
	if err != nil {
		return nil, err
	}
	header := &enginev1.ExecutionPayloadHeader{
		ParentHash:       bytesCopy(payload.ParentHash()),
		FeeRecipient:     bytesCopy(payload.FeeRecipient()),
		StateRoot:        bytesCopy(payload.StateRoot()),
		ReceiptsRoot:     bytesCopy(payload.ReceiptsRoot()),
		LogsBloom:        bytesCopy(payload.LogsBloom()),
		PrevRandao:       bytesCopy(payload.PrevRandao()),
		BlockNumber:      payload.BlockNumber(),
		GasLimit:         payload.GasLimit(),
		GasUsed:          payload.GasUsed(),
		Timestamp:        payload.Timestamp(),
		ExtraData:        bytesCopy(payload.ExtraData()),
		BaseFeePerGas:    bytesCopy(payload.BaseFeePerGas()),
		BlockHash:        bytesCopy(payload.BlockHash()),
		TransactionsRoot: txRoot,
	}
	if payload.Version() >= version.Capella {
		wdRoot, err := payload.WithdrawalsRoot()
		if err != nil {
			return nil, err
		}
		header.WithdrawalsRoot = wdRoot
	}
	return header, nil
}

func bytesCopy(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// EmptyExecutionData returns the default execution payload of the given fork: every fixed-size field
// zeroed and every list empty.
func EmptyExecutionData(v int) (interfaces.ExecutionData, error) {
	switch v {
	case version.Bellatrix:
		return WrappedExecutionPayload(&enginev1.ExecutionPayload{
			ParentHash:    make([]byte, fieldparams.RootLength),
			FeeRecipient:  make([]byte, fieldparams.FeeRecipientLength),
			StateRoot:     make([]byte, fieldparams.RootLength),
			ReceiptsRoot:  make([]byte, fieldparams.RootLength),
			LogsBloom:     make([]byte, fieldparams.LogsBloomLength),
			PrevRandao:    make([]byte, fieldparams.RootLength),
			ExtraData:     make([]byte, 0),
			BaseFeePerGas: make([]byte, fieldparams.RootLength),
			BlockHash:     make([]byte, fieldparams.RootLength),
			Transactions:  make([][]byte, 0),
		})
	case version.Capella:
		return WrappedExecutionPayloadCapella(&enginev1.ExecutionPayloadCapella{
			ParentHash:    make([]byte, fieldparams.RootLength),
			FeeRecipient:  make([]byte, fieldparams.FeeRecipientLength),
			StateRoot:     make([]byte, fieldparams.RootLength),
			ReceiptsRoot:  make([]byte, fieldparams.RootLength),
			LogsBloom:     make([]byte, fieldparams.LogsBloomLength),
			PrevRandao:    make([]byte, fieldparams.RootLength),
			ExtraData:     make([]byte, 0),
			BaseFeePerGas: make([]byte, fieldparams.RootLength),
			BlockHash:     make([]byte, fieldparams.RootLength),
			Transactions:  make([][]byte, 0),
			Withdrawals:   make([]*enginev1.Withdrawal, 0),
		})
	default:
		return nil, errors.Wrapf(ErrUnsupportedVersion, "no execution payload for %s", version.String(v))
	}
}

// IsEmptyExecutionData checks if an execution data is empty underneath. If a single field has
// a non-zero value, this function will return false.
func IsEmptyExecutionData(data interfaces.ExecutionData) (bool, error) {
	if data == nil || data.IsNil() {
		return true, nil
	}
	if !bytes.Equal(data.ParentHash(), make([]byte, fieldparams.RootLength)) {
		return false, nil
	}
	if !bytes.Equal(data.FeeRecipient(), make([]byte, fieldparams.FeeRecipientLength)) {
		return false, nil
	}
	if !bytes.Equal(data.StateRoot(), make([]byte, fieldparams.RootLength)) {
		return false, nil
	}
	if !bytes.Equal(data.ReceiptsRoot(), make([]byte, fieldparams.RootLength)) {
		return false, nil
	}
	if !bytes.Equal(data.LogsBloom(), make([]byte, fieldparams.LogsBloomLength)) {
		return false, nil
	}
	if !bytes.Equal(data.PrevRandao(), make([]byte, fieldparams.RootLength)) {
		return false, nil
	}
	if !bytes.Equal(data.BaseFeePerGas(), make([]byte, fieldparams.RootLength)) {
		return false, nil
	}
	if !bytes.Equal(data.BlockHash(), make([]byte, fieldparams.RootLength)) {
		return false, nil
	}
	if len(data.ExtraData()) != 0 {
		return false, nil
	}
	if data.BlockNumber() != 0 {
		return false, nil
	}
	if data.GasLimit() != 0 {
		return false, nil
	}
	if data.GasUsed() != 0 {
		return false, nil
	}
	if data.Timestamp() != 0 {
		return false, nil
	}

	if data.IsBlinded() {
		return isEmptyHeaderRoots(data)
	}
	txs, err := data.Transactions()
	if err != nil {
		return false, err
	}
	if len(txs) != 0 {
		return false, nil
	}
	if data.Version() >= version.Capella {
		ws, err := data.Withdrawals()
		if err != nil {
			return false, err
		}
		if len(ws) != 0 {
			return false, nil
		}
	}
	return true, nil
}

// A blinded header is empty when its list roots are either unset or equal to the roots of empty lists.
func isEmptyHeaderRoots(data interfaces.ExecutionData) (bool, error) {
	txRoot, err := data.TransactionsRoot()
	if err != nil {
		return false, err
	}
	emptyTxRoot, err := ssz.TransactionsRoot(nil)
	if err != nil {
		return false, err
	}
	if !zeroOrEqual(txRoot, emptyTxRoot[:]) {
		return false, nil
	}
	if data.Version() < version.Capella {
		return true, nil
	}
	wdRoot, err := data.WithdrawalsRoot()
	if err != nil {
		return false, err
	}
	emptyWdRoot, err := ssz.WithdrawalSliceRoot(nil, fieldparams.MaxWithdrawalsPerPayload)
	if err != nil {
		return false, err
	}
	return zeroOrEqual(wdRoot, emptyWdRoot[:]), nil
}

func zeroOrEqual(got, want []byte) bool {
	if len(got) == 0 || bytes.Equal(got, make([]byte, fieldparams.RootLength)) {
		return true
	}
	return bytes.Equal(got, want)
}
