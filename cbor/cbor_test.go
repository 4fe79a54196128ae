package cbor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	A uint64 `cbor:"0,keyasint"`
	B []byte `cbor:"1,keyasint"`
}

func TestMarshalDeterministic(t *testing.T) {
	data, err := Marshal(pair{A: 1, B: []byte{0xab}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa2, 0x00, 0x01, 0x01, 0x41, 0xab}, data)

	var back pair
	require.NoError(t, Unmarshal(data, &back))
	assert.Equal(t, pair{A: 1, B: []byte{0xab}}, back)

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(back))
	assert.Equal(t, data, buf.Bytes())

	var streamed pair
	require.NoError(t, NewDecoder(bytes.NewReader(data)).Decode(&streamed))
	assert.Equal(t, back, streamed)
}

func TestUnmarshalRejects(t *testing.T) {
	for name, data := range map[string][]byte{
		"unknown field":   {0xa3, 0x00, 0x01, 0x01, 0x41, 0xab, 0x02, 0x00},
		"duplicate key":   {0xa2, 0x00, 0x01, 0x00, 0x02},
		"indefinite map":  {0xbf, 0x00, 0x01, 0xff},
		"tagged value":    {0xa1, 0x00, 0xc1, 0x01},
		"truncated input": {0xa2, 0x00, 0x01, 0x01},
	} {
		var p pair
		assert.Error(t, Unmarshal(data, &p), name)
	}
}
