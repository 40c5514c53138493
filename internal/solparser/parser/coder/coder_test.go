package coder

import (
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
)

func encodeInitialize2(tag, nonce uint8, openTime, pcAmount, coinAmount uint64) string {
	raw := []byte{tag, nonce}
	raw = binary.LittleEndian.AppendUint64(raw, openTime)
	raw = binary.LittleEndian.AppendUint64(raw, pcAmount)
	raw = binary.LittleEndian.AppendUint64(raw, coinAmount)
	return base58.Encode(raw)
}

func TestDecodeInitialize2(t *testing.T) {
	data := encodeInitialize2(Initialize2Tag, 253, 1756100000, 5000000000, 1000000000000)

	init, err := DecodeInitialize2(data)
	assert.NoError(t, err)
	assert.Equal(t, uint8(253), init.Nonce)
	assert.Equal(t, uint64(1756100000), init.OpenTime)
	assert.Equal(t, uint64(5000000000), init.InitPcAmount)
	assert.Equal(t, uint64(1000000000000), init.InitCoinAmount)
}

func TestDecodeInitialize2WrongTag(t *testing.T) {
	data := encodeInitialize2(SwapBaseInTag, 253, 1756100000, 1, 1)

	_, err := DecodeInitialize2(data)
	assert.Error(t, err)
}

func TestDecodeInitialize2TooShort(t *testing.T) {
	_, err := DecodeInitialize2(base58.Encode([]byte{Initialize2Tag, 1, 2, 3}))
	assert.Error(t, err)
}

func TestDecodeInitialize2BadEncoding(t *testing.T) {
	_, err := DecodeInitialize2("not-base58-0OIl")
	assert.Error(t, err)
}
