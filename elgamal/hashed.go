package elgamal

import (
	"crypto/hmac"
	"encoding/binary"
	"encoding/hex"
	"strings"

	sha256 "github.com/minio/sha256-simd"
	"github.com/privacybydesign/ballotcrypt/group"
	"github.com/privacybydesign/ballotcrypt/hash"
)

const (
	kdfLabel  = "hashed_elgamal_kdf"
	blockSize = sha256.Size
)

// HashedCiphertext encrypts a byte string of any length. Pad is G^r; the
// stream key is derived from the hash of (G^r, K^r), Data is the payload
// XORed with that stream and padded to a multiple of 32 bytes, and Mac
// authenticates Pad and Data.
type HashedCiphertext struct {
	Pad      *group.ElementModP
	Data     []byte
	Mac      []byte
	NumBytes int
}

// HashedEncrypt encrypts msg under pk. A nil nonce is replaced by a random
// one; an explicit nonce below 2 is rejected.
func HashedEncrypt(pk *PublicKey, msg []byte, nonce *group.ElementModQ) (*HashedCiphertext, error) {
	ct, err := Encrypt(pk, 0, nonce)
	if err != nil {
		return nil, err
	}
	ctx := pk.Context()
	seed := hash.Elems(ctx, ct.Pad, ct.Data)

	numBlocks := (len(msg) + blockSize - 1) / blockSize
	keys := kdf(ctx, seed, numBlocks, len(msg))

	data := make([]byte, numBlocks*blockSize)
	copy(data, msg)
	for i := 0; i < numBlocks; i++ {
		xorBlock(data[i*blockSize:(i+1)*blockSize], keys[i+1])
	}

	return &HashedCiphertext{
		Pad:      ct.Pad,
		Data:     data,
		Mac:      tag(keys[0], ct.Pad, data),
		NumBytes: len(msg),
	}, nil
}

// Decrypt recovers the plaintext with the secret key. It returns false if the
// ciphertext is malformed or fails authentication.
func (c *HashedCiphertext) Decrypt(sk *SecretKey) ([]byte, bool) {
	if c.Pad == nil || !c.Pad.IsValidResidue() {
		return nil, false
	}
	return c.open(c.Pad.Exp(sk.key))
}

// DecryptWithNonce recovers the plaintext from the encryption nonce. It
// returns false if the nonce does not match the pad, or the ciphertext is
// malformed or fails authentication.
func (c *HashedCiphertext) DecryptWithNonce(pk *PublicKey, nonce *group.ElementModQ) ([]byte, bool) {
	if c.Pad == nil || !pk.Context().GPow(nonce).Equal(c.Pad) {
		return nil, false
	}
	return c.open(pk.key.Exp(nonce))
}

func (c *HashedCiphertext) open(beta *group.ElementModP) ([]byte, bool) {
	if len(c.Data)%blockSize != 0 || c.NumBytes < 0 || c.NumBytes > len(c.Data) ||
		len(c.Data)-c.NumBytes >= blockSize {
		return nil, false
	}
	ctx := c.Pad.Context()
	seed := hash.Elems(ctx, c.Pad, beta)

	numBlocks := len(c.Data) / blockSize
	keys := kdf(ctx, seed, numBlocks, c.NumBytes)
	if !hmac.Equal(tag(keys[0], c.Pad, c.Data), c.Mac) {
		Logger.Debug("hashed ElGamal authentication failed")
		return nil, false
	}

	out := make([]byte, len(c.Data))
	copy(out, c.Data)
	for i := 0; i < numBlocks; i++ {
		xorBlock(out[i*blockSize:(i+1)*blockSize], keys[i+1])
	}
	return out[:c.NumBytes], true
}

// Context returns the context of the pad.
func (c *HashedCiphertext) Context() *group.Context { return c.Pad.Context() }

// CryptoHash is the hash of (pad, data, mac), with the byte strings rendered
// as uppercase hex.
func (c *HashedCiphertext) CryptoHash() *group.ElementModQ {
	return hash.Elems(c.Context(), c.Pad, hexUpper(c.Data), hexUpper(c.Mac))
}

// kdf derives numBlocks+1 keys of 32 bytes: block i is
// HMAC-SHA256(seed, BE32(i) || label || 0x00 || context || BE32(bits)),
// where bits is the length of the plaintext in bits. Binding the length into
// every key means a ciphertext with an altered NumBytes fails authentication.
func kdf(ctx *group.Context, seed *group.ElementModQ, numBlocks, numBytes int) [][]byte {
	key := seed.Bytes()
	bits := uint32(numBytes * 8)

	suffix := make([]byte, 0, len(kdfLabel)+1+len(ctx.Name())+4)
	suffix = append(suffix, kdfLabel...)
	suffix = append(suffix, 0)
	suffix = append(suffix, ctx.Name()...)
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], bits)
	suffix = append(suffix, length[:]...)

	keys := make([][]byte, numBlocks+1)
	var counter [4]byte
	for i := range keys {
		mac := hmac.New(sha256.New, key)
		binary.BigEndian.PutUint32(counter[:], uint32(i))
		mac.Write(counter[:])
		mac.Write(suffix)
		keys[i] = mac.Sum(nil)
	}
	return keys
}

func tag(key []byte, pad *group.ElementModP, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(pad.Bytes())
	mac.Write(data)
	return mac.Sum(nil)
}

func hexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func xorBlock(dst, key []byte) {
	for i := range dst {
		dst[i] ^= key[i]
	}
}
