package blocks

import (
	"testing"

	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapExecutionPayload(t *testing.T) {
	data := &enginev1.ExecutionPayload{GasUsed: 54}
	wsb, err := WrappedExecutionPayload(data)
	require.NoError(t, err)
	assert.Equal(t, data, wsb.Proto())
	assert.Equal(t, version.Bellatrix, wsb.Version())
	assert.False(t, wsb.IsBlinded())

	_, err = WrappedExecutionPayload(nil)
	require.ErrorIs(t, err, ErrNilObjectWrapped)
}

func TestWrapExecutionPayloadHeader(t *testing.T) {
	data := &enginev1.ExecutionPayloadHeader{GasUsed: 54}
	wsb, err := WrappedExecutionPayloadHeader(data, version.Bellatrix)
	require.NoError(t, err)
	assert.True(t, wsb.IsBlinded())
	assert.Equal(t, uint64(54), wsb.GasUsed())

	_, err = wsb.Transactions()
	require.ErrorIs(t, err, ErrUnsupportedField)
	_, err = wsb.WithdrawalsRoot()
	require.ErrorIs(t, err, ErrUnsupportedField)

	_, err = WrappedExecutionPayloadHeader(data, version.Altair)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestWrapExecutionPayload_BellatrixWithdrawals(t *testing.T) {
	wsb, err := WrappedExecutionPayload(&enginev1.ExecutionPayload{})
	require.NoError(t, err)
	_, err = wsb.Withdrawals()
	require.ErrorIs(t, err, ErrUnsupportedField)
}

func TestPayloadToHeader(t *testing.T) {
	p := &enginev1.ExecutionPayloadCapella{
		ParentHash:   []byte{1},
		BlockHash:    []byte{2},
		BlockNumber:  10,
		Transactions: [][]byte{{0xaa}, {0xbb}},
		Withdrawals:  []*enginev1.Withdrawal{{Index: 1, Amount: 2, Address: make([]byte, 20)}},
	}
	wp, err := WrappedExecutionPayloadCapella(p)
	require.NoError(t, err)
	h, err := PayloadToHeader(wp)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, h.ParentHash)
	assert.Equal(t, uint64(10), h.BlockNumber)
	assert.Len(t, h.TransactionsRoot, 32)
	assert.Len(t, h.WithdrawalsRoot, 32)

	txRoot, err := wp.TransactionsRoot()
	require.NoError(t, err)
	assert.Equal(t, txRoot, h.TransactionsRoot)

	// The header does not alias the payload.
	p.ParentHash[0] = 9
	assert.Equal(t, []byte{1}, h.ParentHash)

	_, err = PayloadToHeader(nil)
	require.ErrorIs(t, err, ErrNilObject)
}

func TestEmptyExecutionData(t *testing.T) {
	for _, v := range []int{version.Bellatrix, version.Capella} {
		t.Run(version.String(v), func(t *testing.T) {
			e, err := EmptyExecutionData(v)
			require.NoError(t, err)
			assert.Equal(t, v, e.Version())
			empty, err := IsEmptyExecutionData(e)
			require.NoError(t, err)
			assert.True(t, empty)

			h, err := PayloadToHeader(e)
			require.NoError(t, err)
			wh, err := WrappedExecutionPayloadHeader(h, v)
			require.NoError(t, err)
			empty, err = IsEmptyExecutionData(wh)
			require.NoError(t, err)
			assert.True(t, empty)
		})
	}
	_, err := EmptyExecutionData(version.Altair)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestIsEmptyExecutionData(t *testing.T) {
	tests := []struct {
		name    string
		payload func(p *enginev1.ExecutionPayload)
		want    bool
	}{
		{name: "untouched", payload: func(*enginev1.ExecutionPayload) {}, want: true},
		{name: "block hash", payload: func(p *enginev1.ExecutionPayload) { p.BlockHash[0] = 1 }},
		{name: "block number", payload: func(p *enginev1.ExecutionPayload) { p.BlockNumber = 1 }},
		{name: "extra data", payload: func(p *enginev1.ExecutionPayload) { p.ExtraData = []byte{1} }},
		{name: "transactions", payload: func(p *enginev1.ExecutionPayload) { p.Transactions = [][]byte{{1}} }},
		{name: "timestamp", payload: func(p *enginev1.ExecutionPayload) { p.Timestamp = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := EmptyExecutionData(version.Bellatrix)
			require.NoError(t, err)
			p := e.Proto().(*enginev1.ExecutionPayload)
			tt.payload(p)
			got, err := IsEmptyExecutionData(e)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var nilData interfaces.ExecutionData
	got, err := IsEmptyExecutionData(nilData)
	require.NoError(t, err)
	assert.True(t, got)
}
