package bytesutil_test

import (
	"math/big"
	"testing"

	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	"github.com/stretchr/testify/assert"
)

func TestToBytes32(t *testing.T) {
	b := bytesutil.ToBytes32([]byte{1, 2, 3})
	assert.Equal(t, byte(1), b[0])
	assert.Equal(t, byte(0), b[31])
	long := make([]byte, 40)
	long[31] = 9
	assert.Equal(t, byte(9), bytesutil.ToBytes32(long)[31])
}

func TestPadTo(t *testing.T) {
	assert.Equal(t, 32, len(bytesutil.PadTo([]byte{1}, 32)))
	assert.Equal(t, 40, len(bytesutil.PadTo(make([]byte, 40), 32)))
}

func TestTrunc(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, bytesutil.Trunc([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.Equal(t, []byte{1, 2}, bytesutil.Trunc([]byte{1, 2}))
}

func TestSafeCopyBytes(t *testing.T) {
	assert.Nil(t, bytesutil.SafeCopyBytes(nil))
	in := []byte{1, 2}
	out := bytesutil.SafeCopyBytes(in)
	out[0] = 5
	assert.Equal(t, byte(1), in[0])
}

func TestLittleEndianBytesToBigInt(t *testing.T) {
	assert.Equal(t, big.NewInt(256), bytesutil.LittleEndianBytesToBigInt([]byte{0, 1}))
}

func TestZeroRoot(t *testing.T) {
	assert.True(t, bytesutil.ZeroRoot(make([]byte, 32)))
	assert.False(t, bytesutil.ZeroRoot([]byte{0, 1}))
}

func TestUint64ToBytesBigEndian(t *testing.T) {
	enc := bytesutil.Uint64ToBytesBigEndian(258)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, enc)
	assert.Equal(t, uint64(258), bytesutil.BytesToUint64BigEndian(enc))
	assert.Equal(t, uint64(0), bytesutil.BytesToUint64BigEndian([]byte{1}))
}
