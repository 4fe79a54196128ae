package elgamal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHashedRoundTrip(t *testing.T) {
	ctx := testCtx(t)
	kp := GenerateKeypair(ctx)

	rapid.Check(t, func(t *rapid.T) {
		msg := rapid.SliceOfN(rapid.Byte(), 0, 200).Draw(t, "msg")
		n := rapid.Uint64Range(2, 1<<30).Draw(t, "nonce")
		nonce := ctx.UintModQ(n)

		ct, err := HashedEncrypt(kp.Public, msg, nonce)
		require.NoError(t, err)
		assert.Equal(t, len(msg), ct.NumBytes)
		assert.Equal(t, 0, len(ct.Data)%32)

		got, ok := ct.Decrypt(kp.Secret)
		require.True(t, ok)
		assert.True(t, bytes.Equal(msg, got))

		got, ok = ct.DecryptWithNonce(kp.Public, nonce)
		require.True(t, ok)
		assert.True(t, bytes.Equal(msg, got))
	})
}

func TestHashedCorruption(t *testing.T) {
	ctx := testCtx(t)
	kp := GenerateKeypair(ctx)

	rapid.Check(t, func(t *rapid.T) {
		msg := rapid.SliceOfN(rapid.Byte(), 1, 200).Draw(t, "msg")
		ct, err := HashedEncrypt(kp.Public, msg, nil)
		require.NoError(t, err)

		i := rapid.IntRange(0, len(ct.Data)-1).Draw(t, "index")
		flip := rapid.ByteRange(1, 255).Draw(t, "flip")
		corrupted := *ct
		corrupted.Data = append([]byte(nil), ct.Data...)
		corrupted.Data[i] ^= flip

		_, ok := corrupted.Decrypt(kp.Secret)
		assert.False(t, ok)
	})
}

func TestHashedTampering(t *testing.T) {
	ctx := testCtx(t)
	kp := GenerateKeypair(ctx)
	msg := []byte("write-in candidate: Jane Q. Public")

	ct, err := HashedEncrypt(kp.Public, msg, nil)
	require.NoError(t, err)

	mac := *ct
	mac.Mac = append([]byte(nil), ct.Mac...)
	mac.Mac[0] ^= 1
	_, ok := mac.Decrypt(kp.Secret)
	assert.False(t, ok)

	pad := *ct
	pad.Pad = ct.Pad.Mul(ctx.GModP())
	_, ok = pad.Decrypt(kp.Secret)
	assert.False(t, ok)

	length := *ct
	length.NumBytes = len(ct.Data) + 1
	_, ok = length.Decrypt(kp.Secret)
	assert.False(t, ok)

	for _, n := range []int{len(msg) - 1, len(msg) - 5, len(ct.Data) - 31} {
		truncated := *ct
		truncated.NumBytes = n
		_, ok = truncated.Decrypt(kp.Secret)
		assert.False(t, ok, "NumBytes %d", n)
	}

	short := *ct
	short.Data = ct.Data[:len(ct.Data)-1]
	_, ok = short.Decrypt(kp.Secret)
	assert.False(t, ok)

	wrong := GenerateKeypair(ctx)
	_, ok = ct.Decrypt(wrong.Secret)
	assert.False(t, ok)

	got, ok := ct.Decrypt(kp.Secret)
	require.True(t, ok)
	assert.Equal(t, msg, got)
}

func TestHashedInvalidNonce(t *testing.T) {
	ctx := testCtx(t)
	kp := GenerateKeypair(ctx)
	_, err := HashedEncrypt(kp.Public, []byte("x"), ctx.OneModQ())
	assert.Error(t, err)
}

func TestHashedWireFormat(t *testing.T) {
	ctx := testCtx(t)
	kp := GenerateKeypair(ctx)
	msg := bytes.Repeat([]byte{0x5a}, 70)

	ct, err := HashedEncrypt(kp.Public, msg, nil)
	require.NoError(t, err)
	data, err := EncodeHashedCiphertext(ct)
	require.NoError(t, err)
	back, err := DecodeHashedCiphertext(ctx, data)
	require.NoError(t, err)
	assert.True(t, back.CryptoHash().Equal(ct.CryptoHash()))

	got, ok := back.Decrypt(kp.Secret)
	require.True(t, ok)
	assert.Equal(t, msg, got)
}

func TestHashedWireLengthTampering(t *testing.T) {
	ctx := testCtx(t)
	kp := GenerateKeypair(ctx)
	msg := []byte("vote for alice and bob")

	ct, err := HashedEncrypt(kp.Public, msg, nil)
	require.NoError(t, err)
	data, err := EncodeHashedCiphertext(ct)
	require.NoError(t, err)

	// NumBytes (22) is the last value of the encoded map.
	require.Equal(t, byte(len(msg)), data[len(data)-1])
	data[len(data)-1] -= 5
	back, err := DecodeHashedCiphertext(ctx, data)
	require.NoError(t, err)
	require.Equal(t, len(msg)-5, back.NumBytes)

	_, ok := back.Decrypt(kp.Secret)
	assert.False(t, ok)
}
