package util

import (
	fieldparams "github.com/prysmaticlabs/enginebridge/config/fieldparams"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
)

// HydrateExecutionPayload hydrates an execution payload with correct field length sizes
// to comply with fssz marshalling and unmarshalling rules.
func HydrateExecutionPayload(p *enginev1.ExecutionPayload) *enginev1.ExecutionPayload {
	if p == nil {
		p = &enginev1.ExecutionPayload{}
	}
	if p.ParentHash == nil {
		p.ParentHash = make([]byte, fieldparams.RootLength)
	}
	if p.FeeRecipient == nil {
		p.FeeRecipient = make([]byte, fieldparams.FeeRecipientLength)
	}
	if p.StateRoot == nil {
		p.StateRoot = make([]byte, fieldparams.RootLength)
	}
	if p.ReceiptsRoot == nil {
		p.ReceiptsRoot = make([]byte, fieldparams.RootLength)
	}
	if p.LogsBloom == nil {
		p.LogsBloom = make([]byte, fieldparams.LogsBloomLength)
	}
	if p.PrevRandao == nil {
		p.PrevRandao = make([]byte, fieldparams.RootLength)
	}
	if p.ExtraData == nil {
		p.ExtraData = make([]byte, 0)
	}
	if p.BaseFeePerGas == nil {
		p.BaseFeePerGas = make([]byte, fieldparams.RootLength)
	}
	if p.BlockHash == nil {
		p.BlockHash = make([]byte, fieldparams.RootLength)
	}
	if p.Transactions == nil {
		p.Transactions = make([][]byte, 0)
	}
	return p
}

// HydrateExecutionPayloadCapella hydrates a capella execution payload with correct field length sizes.
func HydrateExecutionPayloadCapella(p *enginev1.ExecutionPayloadCapella) *enginev1.ExecutionPayloadCapella {
	if p == nil {
		p = &enginev1.ExecutionPayloadCapella{}
	}
	b := HydrateExecutionPayload(&enginev1.ExecutionPayload{
		ParentHash:    p.ParentHash,
		FeeRecipient:  p.FeeRecipient,
		StateRoot:     p.StateRoot,
		ReceiptsRoot:  p.ReceiptsRoot,
		LogsBloom:     p.LogsBloom,
		PrevRandao:    p.PrevRandao,
		ExtraData:     p.ExtraData,
		BaseFeePerGas: p.BaseFeePerGas,
		BlockHash:     p.BlockHash,
		Transactions:  p.Transactions,
	})
	p.ParentHash = b.ParentHash
	p.FeeRecipient = b.FeeRecipient
	p.StateRoot = b.StateRoot
	p.ReceiptsRoot = b.ReceiptsRoot
	p.LogsBloom = b.LogsBloom
	p.PrevRandao = b.PrevRandao
	p.ExtraData = b.ExtraData
	p.BaseFeePerGas = b.BaseFeePerGas
	p.BlockHash = b.BlockHash
	p.Transactions = b.Transactions
	if p.Withdrawals == nil {
		p.Withdrawals = make([]*enginev1.Withdrawal, 0)
	}
	return p
}

// HydrateExecutionPayloadHeader hydrates an execution payload header with correct field length sizes.
func HydrateExecutionPayloadHeader(h *enginev1.ExecutionPayloadHeader) *enginev1.ExecutionPayloadHeader {
	if h == nil {
		h = &enginev1.ExecutionPayloadHeader{}
	}
	if h.ParentHash == nil {
		h.ParentHash = make([]byte, fieldparams.RootLength)
	}
	if h.FeeRecipient == nil {
		h.FeeRecipient = make([]byte, fieldparams.FeeRecipientLength)
	}
	if h.StateRoot == nil {
		h.StateRoot = make([]byte, fieldparams.RootLength)
	}
	if h.ReceiptsRoot == nil {
		h.ReceiptsRoot = make([]byte, fieldparams.RootLength)
	}
	if h.LogsBloom == nil {
		h.LogsBloom = make([]byte, fieldparams.LogsBloomLength)
	}
	if h.PrevRandao == nil {
		h.PrevRandao = make([]byte, fieldparams.RootLength)
	}
	if h.ExtraData == nil {
		h.ExtraData = make([]byte, 0)
	}
	if h.BaseFeePerGas == nil {
		h.BaseFeePerGas = make([]byte, fieldparams.RootLength)
	}
	if h.BlockHash == nil {
		h.BlockHash = make([]byte, fieldparams.RootLength)
	}
	if h.TransactionsRoot == nil {
		h.TransactionsRoot = make([]byte, fieldparams.RootLength)
	}
	return h
}
